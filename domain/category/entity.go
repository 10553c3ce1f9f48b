package category

import (
	"time"
)

// Category groups events.
type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}

// Input carries the writable fields of a category.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
