package inventory

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"event-inventory/internal/config"
	"event-inventory/internal/database"
	"event-inventory/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{
		Driver:        "sqlite",
		Path:          filepath.Join(t.TempDir(), "inventory_test.db"),
		BusyTimeoutMS: 5000,
	})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestDB(t), nil, nil, zerolog.Nop())
}

func mustArticle(t *testing.T, s *Service, name string, price, initial int64) *models.Article {
	t.Helper()
	a, err := s.AddArticle(context.Background(), ArticleInput{
		Name:            name,
		Category:        "test",
		Price:           price,
		InitialQuantity: initial,
	})
	if err != nil {
		t.Fatalf("AddArticle(%s) error = %v", name, err)
	}
	return a
}

func mustEvent(t *testing.T, s *Service, name string) *models.Event {
	t.Helper()
	e, err := s.AddEvent(context.Background(), name, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("AddEvent(%s) error = %v", name, err)
	}
	return e
}

func mustRecord(t *testing.T, s *Service, articleID, eventID uint, typ string, qty int64) *models.Transaction {
	t.Helper()
	txn, err := s.RecordTransaction(context.Background(), RecordInput{
		ArticleID: articleID,
		EventID:   eventID,
		Type:      typ,
		Quantity:  qty,
	})
	if err != nil {
		t.Fatalf("RecordTransaction(%s %d) error = %v", typ, qty, err)
	}
	return txn
}

func stockOrFail(t *testing.T, s *Service, articleID uint) int64 {
	t.Helper()
	stock, err := s.ComputeStock(context.Background(), articleID)
	if err != nil {
		t.Fatalf("ComputeStock(%d) error = %v", articleID, err)
	}
	return stock
}

// memCache is an in-process Cache used to observe invalidations.
type memCache struct {
	mu          sync.Mutex
	gen         int64
	data        map[string]Stats
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]Stats)}
}

func (c *memCache) Generation(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		*dst.(*Stats) = v
	}
	return ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *value.(*Stats)
	return nil
}

func (c *memCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	return nil
}

type published struct {
	eventType string
	key       string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{eventType: eventType, key: key})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
