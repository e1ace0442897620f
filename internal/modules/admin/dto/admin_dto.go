package dto

import commonDto "anoa.com/placementportal/pkg/dto"

type CreateUserInput struct {
	FullName    string `json:"fullName" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email,max=150"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Role        string `json:"role" binding:"required,oneof=admin student company"`
	Mobile      string `json:"mobile" binding:"omitempty,max=20"`
	Course      string `json:"course" binding:"omitempty,max=100"`
	Branch      string `json:"branch" binding:"omitempty,max=100"`
	Year        *int   `json:"year" binding:"omitempty,min=1,max=6"`
	CompanyName string `json:"companyName" binding:"required_if=Role company,omitempty,max=150"`
}

type UserListFilter struct {
	commonDto.PageQuery
	Role   string `form:"role" binding:"omitempty,oneof=admin student company"`
	Search string `form:"search" binding:"omitempty,max=100"`
}
