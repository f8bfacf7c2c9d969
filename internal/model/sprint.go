package model

import (
	"time"

	"github.com/google/uuid"
)

type Sprint struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Header      string    `gorm:"not null"`
	Description string
	Due         time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Project Project `gorm:"foreignKey:ProjectID"`
}
