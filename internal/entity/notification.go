package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationApplicationStatus = "application_status"
	NotificationInterview         = "interview_scheduled"
	NotificationInterviewUpdate   = "interview_updated"
	NotificationOffer             = "offer_created"
	NotificationOfferResponse     = "offer_response"
	NotificationNewApplication    = "new_application"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"` // recipient
	Type      string     `gorm:"size:50;not null" json:"type"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	EntityID  *uuid.UUID `gorm:"type:uuid" json:"entityId,omitempty"`
	IsRead    bool       `gorm:"default:false" json:"isRead"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
