package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-inventory/internal/models"
)

func TestRecordTransaction_BuyThenSell(t *testing.T) {
	s := newTestService(t)
	fixed := time.Date(2024, 6, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	s.now = func() time.Time { return fixed }

	a := mustArticle(t, s, "A", 10, 5)
	e := mustEvent(t, s, "E1")

	buy := mustRecord(t, s, a.ID, e.ID, models.TransactionBuy, 3)
	if buy.ID == 0 {
		t.Error("recorded transaction has no id")
	}
	if !buy.Date.Equal(fixed) || buy.Date.Location() != time.UTC {
		t.Errorf("Date = %v, want server time %v in UTC", buy.Date, fixed)
	}
	mustRecord(t, s, a.ID, e.ID, models.TransactionSell, 4)

	if got := stockOrFail(t, s, a.ID); got != 4 {
		t.Errorf("stock = %d, want 5+3-4 = 4", got)
	}
}

func TestRecordTransaction_SellMoreThanStock(t *testing.T) {
	s := newTestService(t)
	a := mustArticle(t, s, "A", 10, 2)
	e := mustEvent(t, s, "E1")

	_, err := s.RecordTransaction(context.Background(), RecordInput{
		ArticleID: a.ID, EventID: e.ID, Type: models.TransactionSell, Quantity: 3,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("error %T is not *InsufficientStockError", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 3 || stockErr.ArticleID != a.ID {
		t.Errorf("InsufficientStockError = %+v", stockErr)
	}

	if got := stockOrFail(t, s, a.ID); got != 2 {
		t.Errorf("stock after refused sell = %d, want 2", got)
	}
	rows, err := s.ListEventTransactions(context.Background(), e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("refused sell left %d ledger rows", len(rows))
	}
}

func TestRecordTransaction_SellExactStock(t *testing.T) {
	s := newTestService(t)
	a := mustArticle(t, s, "A", 10, 2)
	e := mustEvent(t, s, "E1")
	mustRecord(t, s, a.ID, e.ID, models.TransactionBuy, 3)

	mustRecord(t, s, a.ID, e.ID, models.TransactionSell, 5)

	if got := stockOrFail(t, s, a.ID); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestRecordTransaction_Rejected(t *testing.T) {
	s := newTestService(t)
	a := mustArticle(t, s, "A", 10, 5)
	e := mustEvent(t, s, "E1")

	testCases := []struct {
		name string
		in   RecordInput
		want error
	}{
		{"unknown article", RecordInput{ArticleID: 999, EventID: e.ID, Type: "buy", Quantity: 1}, ErrUnknownArticle},
		{"unknown event", RecordInput{ArticleID: a.ID, EventID: 999, Type: "buy", Quantity: 1}, ErrUnknownEvent},
		{"invalid type", RecordInput{ArticleID: a.ID, EventID: e.ID, Type: "gift", Quantity: 1}, ErrInvalidType},
		{"uppercase type", RecordInput{ArticleID: a.ID, EventID: e.ID, Type: "SELL", Quantity: 1}, ErrInvalidType},
		{"zero quantity", RecordInput{ArticleID: a.ID, EventID: e.ID, Type: "buy", Quantity: 0}, ErrValidation},
		{"negative quantity", RecordInput{ArticleID: a.ID, EventID: e.ID, Type: "sell", Quantity: -2}, ErrValidation},
	}

	for _, tc := range testCases {
		_, err := s.RecordTransaction(context.Background(), tc.in)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}

	if got := stockOrFail(t, s, a.ID); got != 5 {
		t.Errorf("stock after rejected calls = %d, want 5", got)
	}
}

func TestRecordTransaction_ConcurrentSellsOfLastUnits(t *testing.T) {
	s := newTestService(t)
	a := mustArticle(t, s, "Last", 10, 3)
	e := mustEvent(t, s, "Rush")

	const sellers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		refused   int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < sellers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.RecordTransaction(context.Background(), RecordInput{
				ArticleID: a.ID, EventID: e.ID, Type: models.TransactionSell, Quantity: 3,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientStock):
				refused++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if succeeded != 1 || refused != sellers-1 {
		t.Errorf("succeeded = %d, refused = %d, want 1 and %d", succeeded, refused, sellers-1)
	}
	if got := stockOrFail(t, s, a.ID); got != 0 {
		t.Errorf("final stock = %d, want 0", got)
	}
	if n := s.locks.size(); n != 0 {
		t.Errorf("article locks left behind: %d", n)
	}
}

func TestListEventTransactions(t *testing.T) {
	s := newTestService(t)
	a := mustArticle(t, s, "A", 1, 10)
	e1 := mustEvent(t, s, "E1")
	e2 := mustEvent(t, s, "E2")

	first := mustRecord(t, s, a.ID, e1.ID, models.TransactionSell, 1)
	mustRecord(t, s, a.ID, e2.ID, models.TransactionSell, 2)
	second := mustRecord(t, s, a.ID, e1.ID, models.TransactionBuy, 3)

	rows, err := s.ListEventTransactions(context.Background(), e1.ID)
	if err != nil {
		t.Fatalf("ListEventTransactions() error = %v", err)
	}
	if len(rows) != 2 || rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Errorf("rows = %+v, want ids %d, %d", rows, first.ID, second.ID)
	}

	if _, err := s.ListEventTransactions(context.Background(), 999); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown event error = %v, want ErrUnknownEvent", err)
	}
}

func TestArticleLocks_Released(t *testing.T) {
	l := newArticleLocks()
	release := l.lock(1)
	if l.size() != 1 {
		t.Fatalf("size = %d, want 1", l.size())
	}

	done := make(chan struct{})
	go func() {
		r := l.lock(1)
		r()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	<-done
	if l.size() != 0 {
		t.Errorf("size after release = %d, want 0", l.size())
	}
}
