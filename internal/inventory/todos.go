package inventory

import (
	"context"
	"fmt"
	"strings"

	"event-inventory/internal/models"
	"event-inventory/internal/util"

	"gorm.io/gorm"
)

// ListTodos returns every todo with the name of its event.
func (s *Service) ListTodos(ctx context.Context) ([]models.TodoView, error) {
	var items []models.TodoView
	err := s.db.WithContext(ctx).
		Table("todos AS t").
		Select("t.id, t.description, t.event_id, COALESCE(e.name, '') AS event_name").
		Joins("LEFT JOIN events AS e ON t.event_id = e.id").
		Order("t.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

// AddTodo attaches a task to an existing event.
func (s *Service) AddTodo(ctx context.Context, description string, eventID uint) (*models.Todo, error) {
	description = strings.TrimSpace(description)
	if err := util.ValidateName(description, models.DescriptionSize); err != nil {
		return nil, NewValidationError("description", err.Error())
	}

	todo := models.Todo{Description: description, EventID: eventID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Select("id").First(&event, eventID).Error; err != nil {
			return lookupErr(err, ErrUnknownEvent)
		}
		return tx.Omit("Event").Create(&todo).Error
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// CompleteTodo marks a task done by removing it.
func (s *Service) CompleteTodo(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Todo{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnknownTodo
	}
	return nil
}
