// Package inventory is the stock accounting core: article and event
// registries, the append-only transaction ledger with its oversell guard,
// stock derivation and per-event statistics.
package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Cache stores computed read models under generation-scoped keys.
// Invalidate moves to a new generation, orphaning every earlier entry.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// Publisher forwards domain events after they are committed.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// Service owns every operation that reads or moves stock.
type Service struct {
	db     *gorm.DB
	cache  Cache
	pub    Publisher
	logger zerolog.Logger
	now    func() time.Time

	// ledgerMu is held shared by single-article writes and exclusively by
	// writes that can touch the ledger of many articles at once.
	ledgerMu sync.RWMutex
	locks    *articleLocks
}

// NewService wires the core. cache and pub may be nil.
func NewService(db *gorm.DB, cache Cache, pub Publisher, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		pub:    pub,
		logger: logger.With().Str("component", "inventory").Logger(),
		now:    time.Now,
		locks:  newArticleLocks(),
	}
}

// lockArticle serializes writers of one article aggregate.
func (s *Service) lockArticle(id uint) func() {
	s.ledgerMu.RLock()
	release := s.locks.lock(id)
	return func() {
		release()
		s.ledgerMu.RUnlock()
	}
}

// lockLedger excludes every other ledger writer.
func (s *Service) lockLedger() func() {
	s.ledgerMu.Lock()
	return s.ledgerMu.Unlock
}

// committed runs the post-commit side effects of a write. Neither a cache nor
// a broker failure can undo the write, so both are only logged.
func (s *Service) committed(ctx context.Context, eventType, key string, payload any) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Str("event_type", eventType).Msg("cache invalidation failed")
		}
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, eventType, key, payload); err != nil {
			s.logger.Error().Err(err).Str("event_type", eventType).Str("key", key).Msg("publish failed")
		}
	}
}
