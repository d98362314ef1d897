package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owned is implemented by every entity that belongs to exactly one user.
// The owning user id is set at creation and never changed by updates.
type Owned interface {
	GetID() uuid.UUID
	GetUserID() uuid.UUID
	SetUserID(uuid.UUID)
}

// OwnedModel is embedded by owned entities to satisfy Owned.
type OwnedModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *OwnedModel) GetID() uuid.UUID     { return m.ID }
func (m *OwnedModel) GetUserID() uuid.UUID { return m.UserID }

func (m *OwnedModel) SetUserID(userID uuid.UUID) { m.UserID = userID }
