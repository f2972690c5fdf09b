package models

import "time"

// Column sizes, kept in step with the gorm size tags below and in event.go
// and todo.go.
const (
	NameSize        = 128
	CategorySize    = 64
	DescriptionSize = 255
)

// Article is a product sold at events. Price is an integer currency unit.
type Article struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	Category        string    `gorm:"size:64;index" json:"category"`
	Price           int64     `gorm:"not null" json:"price"`
	InitialQuantity int64     `gorm:"not null" json:"initial_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ArticleStock pairs an article with its derived stock. Stock is never stored.
type ArticleStock struct {
	Article
	Stock int64 `json:"stock"`
}
