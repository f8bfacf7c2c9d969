package model

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to a sprint. Notes and blocks are ordered lists that are only
// ever replaced wholesale; there is no per-item identity.
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SprintID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Header      string    `gorm:"not null"`
	Description string
	Due         time.Time
	Notes       []string `gorm:"type:jsonb;serializer:json"`
	Blocks      []string `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sprint Sprint `gorm:"foreignKey:SprintID"`
}
