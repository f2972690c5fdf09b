package models

// Todo is a task tied to an event, removed together with it.
type Todo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"size:255;not null" json:"description"`
	EventID     uint   `gorm:"index;not null" json:"event_id"`

	Event Event `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TodoView is a todo joined with the name of its event.
type TodoView struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	EventID     uint   `json:"event_id"`
	EventName   string `json:"event_name"`
}
