package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SupportPending   = "pending"
	SupportResponded = "responded"
	SupportClosed    = "closed"
)

type SupportMessage struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Email       string     `gorm:"size:150;not null;index" json:"email"`
	Subject     string     `gorm:"size:200;not null" json:"subject"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Status      string     `gorm:"size:20;not null;default:pending;index;check:status IN ('pending','responded','closed')" json:"status"`
	Response    *string    `gorm:"type:text" json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m *SupportMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
