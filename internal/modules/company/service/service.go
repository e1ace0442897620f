package service

import (
	"context"
	"errors"
	"strings"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/company/dto"
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type CompanyService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateCompanyInput) (*userDto.UserResponse, error)
	List(ctx context.Context, filter dto.CompanyFilter) (*commonDto.Paginated[*userDto.UserResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error)
}

type companyService struct {
	users     userRepo.UserRepository
	sanitizer *bluemonday.Policy
}

func NewCompanyService(users userRepo.UserRepository) CompanyService {
	return &companyService{users: users, sanitizer: bluemonday.UGCPolicy()}
}

func (s *companyService) load(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("company")
		}
		return nil, err
	}
	if user.Role != entity.RoleCompany {
		return nil, apperror.NotFound("company")
	}
	if user.CompanyProfile == nil {
		user.CompanyProfile = &entity.CompanyProfile{UserID: user.ID, CompanyName: user.FullName}
	}
	return user, nil
}

func (s *companyService) GetMe(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error) {
	return s.GetByID(ctx, userID)
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

func (s *companyService) UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateCompanyInput) (*userDto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil && strings.TrimSpace(*input.FullName) != user.FullName {
		user.FullName = strings.TrimSpace(*input.FullName)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	profile := user.CompanyProfile
	if input.CompanyName != nil {
		profile.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.Website != nil {
		profile.Website = optional(*input.Website)
	}
	if input.Industry != nil {
		profile.Industry = optional(*input.Industry)
	}
	if input.Location != nil {
		profile.Location = optional(*input.Location)
	}
	if input.Description != nil {
		profile.Description = optional(s.sanitizer.Sanitize(*input.Description))
	}

	if err := s.users.SaveCompanyProfile(ctx, profile); err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

// optional maps blank strings to NULL.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *companyService) List(ctx context.Context, filter dto.CompanyFilter) (*commonDto.Paginated[*userDto.UserResponse], error) {
	page, limit, offset := filter.Resolve()

	users, total, err := s.users.FindAll(ctx, userRepo.UserFilter{
		Role:   entity.RoleCompany,
		Search: strings.TrimSpace(filter.Search),
	}, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(userDto.NewUserResponses(users), page, limit, total), nil
}
