package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the ISO-8601 calendar date stored in Completion.Date.
const DateLayout = "2006-01-02"

// Completion records that a user finished (part of) a task on a given day.
// At most one row exists per user, task and day.
type Completion struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"not null;uniqueIndex:idx_completion_day"`
	TaskID    string    `json:"taskId" gorm:"not null;uniqueIndex:idx_completion_day;index"`
	Date      string    `json:"date" gorm:"column:completed_on;not null;uniqueIndex:idx_completion_day;index"`
	Quantity  float64   `json:"quantity" gorm:"not null;default:1"`
	Points    float64   `json:"points" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Completion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
