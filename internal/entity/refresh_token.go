package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken tracks one issued refresh token. Only the sha256 of the token is stored.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"` // jti claim
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
