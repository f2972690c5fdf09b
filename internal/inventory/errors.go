package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrValidation marks malformed input: a missing field or a bad number.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownReference is the parent of every "id not found" error.
	ErrUnknownReference = errors.New("unknown reference")

	ErrUnknownArticle = fmt.Errorf("%w: article", ErrUnknownReference)
	ErrUnknownEvent   = fmt.Errorf("%w: event", ErrUnknownReference)
	ErrUnknownTodo    = fmt.Errorf("%w: todo", ErrUnknownReference)

	ErrInvalidType       = errors.New("transaction type must be buy or sell")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError reports which field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is returned when a sell exceeds the derived stock.
type InsufficientStockError struct {
	ArticleID uint
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for article %d: requested %d, available %d",
		e.ArticleID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// IsValidation helps callers distinguish input errors from infrastructure failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidType)
}

// lookupErr maps gorm's not-found onto the domain error for the missing row.
func lookupErr(err error, missing error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return fmt.Errorf("lookup: %w", err)
}
