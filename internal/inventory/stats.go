package inventory

import (
	"context"
	"fmt"
	"time"

	"event-inventory/internal/models"
)

// BestProduct is one row of the best-seller ranking.
type BestProduct struct {
	ArticleID    uint   `json:"article_id"`
	ArticleName  string `json:"article_name"`
	QuantitySold int64  `json:"quantity_sold"`
}

// Stats summarises the ledger of one event.
type Stats struct {
	EventID      uint          `json:"event_id"`
	EventName    string        `json:"event_name"`
	EventDate    time.Time     `json:"event_date"`
	TotalSold    int64         `json:"total_sold"`
	TotalBought  int64         `json:"total_bought"`
	Profit       int64         `json:"profit"`
	BestProducts []BestProduct `json:"best_products"`
}

func statsKey(generation int64, eventID uint) string {
	return fmt.Sprintf("stats:%d:event:%d", generation, eventID)
}

// ComputeStats aggregates totals, profit and best-sellers for an event.
// Profit uses each article's current price, so editing a price changes the
// profit of past events. Best-sellers tie on quantity are ordered by article id.
func (s *Service) ComputeStats(ctx context.Context, eventID uint) (*Stats, error) {
	// The generation is read before the ledger, so a write that commits
	// meanwhile leaves this result under an already orphaned key.
	key := ""
	if s.cache != nil {
		if gen, err := s.cache.Generation(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache unavailable")
		} else {
			key = statsKey(gen, eventID)
			var cached Stats
			hit, err := s.cache.Get(ctx, key, &cached)
			if err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
			} else if hit {
				return &cached, nil
			}
		}
	}

	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.First(&event, eventID).Error; err != nil {
		return nil, lookupErr(err, ErrUnknownEvent)
	}

	var totals struct {
		TotalSold   int64
		TotalBought int64
	}
	err := db.Model(&models.Transaction{}).
		Select("CAST(COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) AS BIGINT) AS total_sold, "+
			"CAST(COALESCE(SUM(CASE WHEN type = ? THEN quantity ELSE 0 END), 0) AS BIGINT) AS total_bought",
			models.TransactionSell, models.TransactionBuy).
		Where("event_id = ?", eventID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum event totals: %w", err)
	}

	var profit struct {
		Profit int64
	}
	err = db.Table("transactions AS t").
		Select("CAST(COALESCE(SUM(CASE WHEN t.type = ? THEN t.quantity * a.price "+
			"WHEN t.type = ? THEN -t.quantity * a.price ELSE 0 END), 0) AS BIGINT) AS profit",
			models.TransactionSell, models.TransactionBuy).
		Joins("JOIN articles AS a ON a.id = t.article_id").
		Where("t.event_id = ?", eventID).
		Scan(&profit).Error
	if err != nil {
		return nil, fmt.Errorf("sum event profit: %w", err)
	}

	best := make([]BestProduct, 0)
	err = db.Table("transactions AS t").
		Select("a.id AS article_id, a.name AS article_name, CAST(SUM(t.quantity) AS BIGINT) AS quantity_sold").
		Joins("JOIN articles AS a ON a.id = t.article_id").
		Where("t.event_id = ? AND t.type = ?", eventID, models.TransactionSell).
		Group("a.id, a.name").
		Order("quantity_sold DESC, a.id ASC").
		Scan(&best).Error
	if err != nil {
		return nil, fmt.Errorf("rank best products: %w", err)
	}

	stats := &Stats{
		EventID:      event.ID,
		EventName:    event.Name,
		EventDate:    event.Date,
		TotalSold:    totals.TotalSold,
		TotalBought:  totals.TotalBought,
		Profit:       profit.Profit,
		BestProducts: best,
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, stats); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
