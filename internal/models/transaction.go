package models

import "time"

// Transaction types
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction is an immutable ledger movement. Rows are only removed by
// cascading deletion of the owning article or event.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index;not null" json:"article_id"`
	Type      string    `gorm:"size:8;not null" json:"type"` // buy / sell
	Quantity  int64     `gorm:"not null" json:"quantity"`
	EventID   uint      `gorm:"index;not null" json:"event_id"`
	Date      time.Time `gorm:"index;not null" json:"date"`

	Article Article `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Event   Event   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
