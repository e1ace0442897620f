package dto

import (
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	"anoa.com/placementportal/pkg/token"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput is the public sign-up form. Admin accounts are created from
// the admin module only.
type RegisterInput struct {
	FullName    string `json:"fullName" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email,max=150"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Role        string `json:"role" binding:"required,oneof=student company"`
	Mobile      string `json:"mobile" binding:"omitempty,max=20"`
	Course      string `json:"course" binding:"omitempty,max=100"`
	Branch      string `json:"branch" binding:"omitempty,max=100"`
	Year        *int   `json:"year" binding:"omitempty,min=1,max=6"`
	CompanyName string `json:"companyName" binding:"required_if=Role company,omitempty,max=150"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

type AuthResponse struct {
	User   *userDto.UserResponse `json:"user"`
	Tokens *token.Pair           `json:"tokens"`
}
