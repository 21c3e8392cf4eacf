package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindBinary   = "binary"
	KindQuantity = "quantity"

	// AssignEveryone is the assignment target shared by all members.
	AssignEveryone = "all"
)

type Task struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	AssignedTo    string    `json:"assignedTo" gorm:"index;not null"` // "all" or a user ID
	Kind          string    `json:"kind" gorm:"not null;default:'binary'"`
	Points        float64   `json:"points"`
	Unit          string    `json:"unit"`
	PointsPerUnit float64   `json:"pointsPerUnit"`
	DailyTarget   float64   `json:"dailyTarget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// VisibleTo reports whether the task shows up on the given user's list.
func (t *Task) VisibleTo(userID string) bool {
	return t.AssignedTo == AssignEveryone || t.AssignedTo == userID
}

// MaxPoints is the most a user can earn from the task in one day.
func (t *Task) MaxPoints() float64 {
	if t.Kind == KindQuantity {
		return t.PointsPerUnit * t.DailyTarget
	}
	return t.Points
}

// Task DTOs
type CreateTaskRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	AssignedTo    string  `json:"assignedTo"`
	Kind          string  `json:"kind" validate:"required,oneof=binary quantity"`
	Points        float64 `json:"points" validate:"required_if=Kind binary,gte=0"`
	Unit          string  `json:"unit" validate:"max=50"`
	PointsPerUnit float64 `json:"pointsPerUnit" validate:"required_if=Kind quantity,gte=0"`
	DailyTarget   float64 `json:"dailyTarget" validate:"required_if=Kind quantity,gte=0"`
}

type ProgressRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}
