package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationSelected    = "selected"
)

type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_student" json:"jobId"`
	Job         *Job      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_student;index" json:"studentId"`
	Student     *User     `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	ResumeURL   string    `gorm:"type:text;not null" json:"resumeUrl"`
	CoverLetter *string   `gorm:"type:text" json:"coverLetter,omitempty"`
	Status      string    `gorm:"size:20;not null;default:pending;index;check:status IN ('pending','shortlisted','rejected','selected')" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
