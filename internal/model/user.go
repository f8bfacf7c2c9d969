package model

import (
	"time"
)

// User is the local profile for an identity-provider account. The ID is the
// provider's subject claim, so it is stable across sign-ins and never reissued.
type User struct {
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Email           string `gorm:"index;not null"`
	ProfileImageURL string
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}
