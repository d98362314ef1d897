package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GlobalSettings is the singleton configuration record. At most one row is
// active; the settings cache replaces its copy wholesale on refresh.
type GlobalSettings struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string            `json:"name" gorm:"uniqueIndex;not null"`
	FeatureFlags datatypes.JSONMap `json:"featureFlags"`

	RateLimitWindowMinutes int `json:"rateLimitWindowMinutes" gorm:"not null;default:15"`
	RateLimitMaxRequests   int `json:"rateLimitMaxRequests" gorm:"not null;default:100"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSettings is a per-user owned resource served through the generic
// ownership-scoped store.
type UserSettings struct {
	OwnedModel
	Theme        string            `json:"theme" gorm:"not null;default:dark"`
	FeatureFlags datatypes.JSONMap `json:"featureFlags"`

	RateLimitWindowMinutes int `json:"rateLimitWindowMinutes" gorm:"not null;default:15"`
	RateLimitMaxRequests   int `json:"rateLimitMaxRequests" gorm:"not null;default:100"`
}
