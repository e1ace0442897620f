package dto

import (
	"io"

	commonDto "anoa.com/placementportal/pkg/dto"
)

type UpdateStudentInput struct {
	FullName *string  `json:"fullName" binding:"omitempty,min=2,max=100"`
	Mobile   *string  `json:"mobile" binding:"omitempty,max=20"`
	Course   *string  `json:"course" binding:"omitempty,max=100"`
	Branch   *string  `json:"branch" binding:"omitempty,max=100"`
	Year     *int     `json:"year" binding:"omitempty,min=1,max=6"`
	Skills   []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	CGPA     *float64 `json:"cgpa" binding:"omitempty,min=0,max=10"`
}

type StudentFilter struct {
	commonDto.PageQuery
	Search string `form:"search"`
	Branch string `form:"branch"`
	Year   int    `form:"year" binding:"omitempty,min=1,max=6"`
}

// ResumeFile is an already validated PDF upload.
type ResumeFile struct {
	Reader   io.Reader
	FileName string
}
