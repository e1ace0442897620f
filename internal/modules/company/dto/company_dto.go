package dto

import commonDto "anoa.com/placementportal/pkg/dto"

type UpdateCompanyInput struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	CompanyName *string `json:"companyName" binding:"omitempty,min=2,max=150"`
	Website     *string `json:"website" binding:"omitempty,url,max=255"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	Location    *string `json:"location" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type CompanyFilter struct {
	commonDto.PageQuery
	Search string `form:"search"`
}
