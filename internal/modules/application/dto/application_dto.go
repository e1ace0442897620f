package dto

import commonDto "anoa.com/placementportal/pkg/dto"

type ApplyInput struct {
	JobID       string `json:"jobId" binding:"required,uuid"`
	ResumeURL   string `json:"resumeUrl" binding:"required,url,pdfurl,max=2048"`
	CoverLetter string `json:"coverLetter" binding:"omitempty,max=5000"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending shortlisted rejected selected"`
}

type ApplicationFilter struct {
	commonDto.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending shortlisted rejected selected"`
}
