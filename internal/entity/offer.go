package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OfferPending  = "pending"
	OfferAccepted = "accepted"
	OfferRejected = "rejected"
)

type Offer struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"applicationId"`
	Application   *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"application,omitempty"`
	OfferedCTC    float64      `gorm:"column:offered_ctc;not null;check:offered_ctc > 0" json:"offeredCtc"`
	JoiningDate   time.Time    `gorm:"not null" json:"joiningDate"`
	Status        string       `gorm:"size:20;not null;default:pending" json:"status"`
	RespondedAt   *time.Time   `json:"respondedAt,omitempty"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID, err = uuid.NewV7()
	}
	return
}
