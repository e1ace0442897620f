package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleCompany = "company"
)

// ValidRole reports whether role is one of the three portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStudent, RoleCompany:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string          `gorm:"size:100;not null" json:"fullName"`
	Email          string          `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash   string          `gorm:"size:255;not null" json:"-"`
	Role           string          `gorm:"size:20;index;not null;check:role IN ('admin','student','company')" json:"role"`
	GoogleID       *string         `gorm:"size:100;uniqueIndex" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"studentProfile,omitempty"`
	CompanyProfile *CompanyProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"companyProfile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type StudentProfile struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"userId"`
	Mobile    string         `gorm:"size:20" json:"mobile"`
	Course    string         `gorm:"size:100" json:"course"`
	Branch    string         `gorm:"size:100;index" json:"branch"`
	Year      int            `gorm:"not null;default:1;check:year BETWEEN 1 AND 6" json:"year"`
	Skills    pq.StringArray `gorm:"type:text[]" json:"skills"`
	CGPA      *float64       `json:"cgpa,omitempty"`
	ResumeURL *string        `gorm:"type:text" json:"resumeUrl,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

type CompanyProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	CompanyName string    `gorm:"size:150;not null" json:"companyName"`
	Website     *string   `gorm:"type:text" json:"website,omitempty"`
	Industry    *string   `gorm:"size:100" json:"industry,omitempty"`
	Location    *string   `gorm:"size:150" json:"location,omitempty"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
