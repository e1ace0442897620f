package dto

import commonDto "anoa.com/placementportal/pkg/dto"

type CreateSupportInput struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email,max=150"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type UpdateSupportStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending responded closed"`
}

type RespondSupportInput struct {
	Response string `json:"response" binding:"required,max=5000"`
}

type SupportFilter struct {
	commonDto.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending responded closed"`
}
