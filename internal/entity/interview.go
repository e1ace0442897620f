package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InterviewScheduled = "scheduled"
	InterviewCompleted = "completed"
	InterviewCancelled = "cancelled"

	ResultPending = "pending"
	ResultPassed  = "passed"
	ResultFailed  = "failed"

	ModeOnline  = "online"
	ModeOffline = "offline"
)

type Interview struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"applicationId"`
	Application   *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"application,omitempty"`
	ScheduledAt   time.Time    `gorm:"not null" json:"scheduledAt"`
	Mode          string       `gorm:"size:20;not null" json:"mode"`
	Round         int          `gorm:"not null;default:1" json:"round"`
	Location      *string      `gorm:"type:text" json:"location,omitempty"`
	MeetingLink   *string      `gorm:"type:text" json:"meetingLink,omitempty"`
	Status        string       `gorm:"size:20;not null;default:scheduled;check:status IN ('scheduled','completed','cancelled')" json:"status"`
	Result        string       `gorm:"size:20;not null;default:pending;check:result IN ('pending','passed','failed')" json:"result"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (i *Interview) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
