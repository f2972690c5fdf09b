package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"event-inventory/internal/models"
	"event-inventory/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListEvents returns all events ordered by id.
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// AddEvent registers a new event. Events cannot be edited afterwards.
func (s *Service) AddEvent(ctx context.Context, name string, date time.Time) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if err := util.ValidateName(name, models.NameSize); err != nil {
		return nil, NewValidationError("name", err.Error())
	}
	if date.IsZero() {
		return nil, NewValidationError("date", "is required")
	}

	event := models.Event{Name: name, Date: date}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.committed(ctx, "event.created", eventKey(event.ID), event)
	return &event, nil
}

// DeleteEvent removes the event with its transactions and todos as one unit.
// Dropping ledger rows changes the stock of several articles, so it runs
// exclusively against every other ledger writer.
func (s *Service) DeleteEvent(ctx context.Context, id uint) error {
	unlock := s.lockLedger()

	var removedTx, removedTodos int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, id).Error; err != nil {
			return lookupErr(err, ErrUnknownEvent)
		}

		// lock the article aggregates whose stock is about to change
		var touched []models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id IN (?)", tx.Model(&models.Transaction{}).Select("article_id").Where("event_id = ?", id)).
			Find(&touched).Error; err != nil {
			return fmt.Errorf("lock articles: %w", err)
		}

		res := tx.Where("event_id = ?", id).Delete(&models.Transaction{})
		if res.Error != nil {
			return fmt.Errorf("delete event transactions: %w", res.Error)
		}
		removedTx = res.RowsAffected

		res = tx.Where("event_id = ?", id).Delete(&models.Todo{})
		if res.Error != nil {
			return fmt.Errorf("delete event todos: %w", res.Error)
		}
		removedTodos = res.RowsAffected

		if err := tx.Delete(&event).Error; err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return err
	}

	s.logger.Info().
		Uint("event_id", id).
		Int64("transactions_removed", removedTx).
		Int64("todos_removed", removedTodos).
		Msg("event deleted")
	s.committed(ctx, "event.deleted", eventKey(id), map[string]any{
		"id":                   id,
		"transactions_removed": removedTx,
		"todos_removed":        removedTodos,
	})
	return nil
}

func eventKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
