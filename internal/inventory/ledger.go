package inventory

import (
	"context"
	"fmt"
	"strconv"

	"event-inventory/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bounds that keep every ledger sum, and quantity*price in the profit
// query, far inside int64.
const (
	MaxQuantity int64 = 1_000_000
	MaxPrice    int64 = 100_000_000
	MaxStock    int64 = 1_000_000_000_000
)

// RecordInput describes one stock movement.
type RecordInput struct {
	ArticleID uint
	EventID   uint
	Type      string // buy / sell
	Quantity  int64
}

func (in RecordInput) validate() error {
	if in.Type != models.TransactionBuy && in.Type != models.TransactionSell {
		return fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}
	if in.Quantity <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}
	if in.Quantity > MaxQuantity {
		return NewValidationError("quantity", fmt.Sprintf("must not exceed %d", MaxQuantity))
	}
	return nil
}

// RecordTransaction appends a movement to the ledger. For a sell, the stock
// check and the insert run in one database transaction while the article is
// locked, so two sells cannot both spend the same remaining units.
func (s *Service) RecordTransaction(ctx context.Context, in RecordInput) (*models.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	unlock := s.lockArticle(in.ArticleID)

	txn := models.Transaction{
		ArticleID: in.ArticleID,
		EventID:   in.EventID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Date:      s.now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&article, in.ArticleID).Error; err != nil {
			return lookupErr(err, ErrUnknownArticle)
		}

		var event models.Event
		if err := tx.Select("id").First(&event, in.EventID).Error; err != nil {
			return lookupErr(err, ErrUnknownEvent)
		}

		stock, err := stockOf(tx, &article)
		if err != nil {
			return err
		}
		switch in.Type {
		case models.TransactionSell:
			if in.Quantity > stock {
				return &InsufficientStockError{
					ArticleID: article.ID,
					Available: stock,
					Requested: in.Quantity,
				}
			}
		case models.TransactionBuy:
			if stock > MaxStock-in.Quantity {
				return NewValidationError("quantity", fmt.Sprintf("would raise stock above %d", MaxStock))
			}
		}

		if err := tx.Omit(clause.Associations).Create(&txn).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	// committed may block on the broker; do not hold the article lock for it
	unlock()
	if err != nil {
		return nil, err
	}

	s.committed(ctx, "transaction.recorded", strconv.FormatUint(uint64(txn.ArticleID), 10), txn)
	return &txn, nil
}

// ListEventTransactions returns the ledger rows of one event in insertion order.
func (s *Service) ListEventTransactions(ctx context.Context, eventID uint) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.Select("id").First(&event, eventID).Error; err != nil {
		return nil, lookupErr(err, ErrUnknownEvent)
	}

	var items []models.Transaction
	if err := db.Where("event_id = ?", eventID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}
