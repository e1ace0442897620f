package dto

import (
	"time"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
)

// UserResponse is the public view of a user. The password hash never leaves the service layer.
type UserResponse struct {
	ID             uuid.UUID              `json:"id"`
	FullName       string                 `json:"fullName"`
	Email          string                 `json:"email"`
	Role           string                 `json:"role"`
	CreatedAt      time.Time              `json:"createdAt"`
	StudentProfile *entity.StudentProfile `json:"studentProfile,omitempty"`
	CompanyProfile *entity.CompanyProfile `json:"companyProfile,omitempty"`
}

func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
		StudentProfile: user.StudentProfile,
		CompanyProfile: user.CompanyProfile,
	}
}

func NewUserResponses(users []*entity.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
