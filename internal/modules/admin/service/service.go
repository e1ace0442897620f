package service

import (
	"context"
	"errors"
	"strings"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/admin/dto"
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/password"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*userDto.UserResponse, error)
	ListUsers(ctx context.Context, filter dto.UserListFilter) (*commonDto.Paginated[*userDto.UserResponse], error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) error
}

type adminService struct {
	users  userRepo.UserRepository
	hasher *password.Hasher
}

func NewAdminService(users userRepo.UserRepository, hasher *password.Hasher) AdminService {
	return &adminService{users: users, hasher: hasher}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*userDto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}

	switch input.Role {
	case entity.RoleStudent:
		year := 1
		if input.Year != nil {
			year = *input.Year
		}
		user.StudentProfile = &entity.StudentProfile{
			Mobile: strings.TrimSpace(input.Mobile),
			Course: strings.TrimSpace(input.Course),
			Branch: strings.TrimSpace(input.Branch),
			Year:   year,
			Skills: []string{},
		}
	case entity.RoleCompany:
		user.CompanyProfile = &entity.CompanyProfile{
			CompanyName: strings.TrimSpace(input.CompanyName),
		}
	case entity.RoleAdmin:
	default:
		return nil, apperror.Validation(apperror.Issue{Field: "role", Message: "role must be one of: admin student company"})
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, err
	}

	return userDto.NewUserResponse(user), nil
}

func (s *adminService) ListUsers(ctx context.Context, filter dto.UserListFilter) (*commonDto.Paginated[*userDto.UserResponse], error) {
	page, limit, offset := filter.Resolve()

	users, total, err := s.users.FindAll(ctx, userRepo.UserFilter{
		Role:   filter.Role,
		Search: strings.TrimSpace(filter.Search),
	}, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(userDto.NewUserResponses(users), page, limit, total), nil
}

func (s *adminService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperror.BadRequest("you cannot delete your own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return err
	}
	return nil
}
