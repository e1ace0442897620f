package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Job struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"companyId"`
	Company          *CompanyProfile `gorm:"foreignKey:CompanyID;references:UserID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	Title            string          `gorm:"size:200;not null" json:"title"`
	Description      string          `gorm:"type:text;not null" json:"description"`
	Location         string          `gorm:"size:150" json:"location"`
	Package          float64         `gorm:"not null" json:"package"`
	Eligibility      string          `gorm:"type:text" json:"eligibility"`
	EligibleBranches pq.StringArray  `gorm:"type:text[]" json:"eligibleBranches"`
	MinCGPA          *float64        `json:"minCgpa,omitempty"`
	Deadline         time.Time       `gorm:"not null;index" json:"deadline"`
	IsActive         bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID, err = uuid.NewV7()
	}
	return
}

// IsOpen reports whether students may still apply.
func (j *Job) IsOpen(now time.Time) bool {
	return j.IsActive && now.Before(j.Deadline)
}

// LocationKey is the form locations are compared in: trimmed and lower-cased.
func LocationKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
