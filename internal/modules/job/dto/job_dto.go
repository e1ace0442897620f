package dto

import (
	"time"

	commonDto "anoa.com/placementportal/pkg/dto"
)

type CreateJobInput struct {
	// CompanyID is required for admins and ignored for companies.
	CompanyID        string     `json:"companyId" binding:"omitempty,uuid"`
	Title            string     `json:"title" binding:"required,min=3,max=200"`
	Description      string     `json:"description" binding:"required,min=10,max=20000"`
	Location         string     `json:"location" binding:"required,max=150"`
	Package          float64    `json:"package" binding:"required,gt=0"`
	Eligibility      string     `json:"eligibility" binding:"omitempty,max=2000"`
	EligibleBranches []string   `json:"eligibleBranches" binding:"omitempty,max=30,dive,min=1,max=100"`
	MinCGPA          *float64   `json:"minCgpa" binding:"omitempty,min=0,max=10"`
	Deadline         *time.Time `json:"deadline" binding:"required,future"`
}

type UpdateJobInput struct {
	Title            *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description      *string    `json:"description" binding:"omitempty,min=10,max=20000"`
	Location         *string    `json:"location" binding:"omitempty,max=150"`
	Package          *float64   `json:"package" binding:"omitempty,gt=0"`
	Eligibility      *string    `json:"eligibility" binding:"omitempty,max=2000"`
	EligibleBranches []string   `json:"eligibleBranches" binding:"omitempty,max=30,dive,min=1,max=100"`
	MinCGPA          *float64   `json:"minCgpa" binding:"omitempty,min=0,max=10"`
	Deadline         *time.Time `json:"deadline" binding:"omitempty,future"`
	IsActive         *bool      `json:"isActive"`
}

type JobFilter struct {
	commonDto.PageQuery
	Search     string `form:"search"`
	Location   string `form:"location"`
	CompanyID  string `form:"companyId" binding:"omitempty,uuid"`
	ActiveOnly bool   `form:"activeOnly"`
}
