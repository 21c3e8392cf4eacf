package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// Group DTOs
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GroupSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MemberCount int     `json:"memberCount"`
	Points      float64 `json:"points"`
}
