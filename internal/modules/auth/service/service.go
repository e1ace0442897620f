package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/auth/dto"
	"anoa.com/placementportal/internal/modules/auth/repository"
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/password"
	"anoa.com/placementportal/pkg/token"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errInvalidCredentials = apperror.Unauthorized("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
	GoogleLoginURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
}

type authService struct {
	users       userRepo.UserRepository
	tokens      repository.RefreshTokenRepository
	issuer      *token.Service
	hasher      *password.Hasher
	google      GoogleProvider
	emailDomain string
	now         func() time.Time
}

func NewAuthService(
	users userRepo.UserRepository,
	tokens repository.RefreshTokenRepository,
	issuer *token.Service,
	hasher *password.Hasher,
	google GoogleProvider,
	emailDomain string,
) AuthService {
	return &authService{
		users:       users,
		tokens:      tokens,
		issuer:      issuer,
		hasher:      hasher,
		google:      google,
		emailDomain: strings.ToLower(strings.TrimPrefix(emailDomain, "@")),
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
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
			Mobile: input.Mobile,
			Course: input.Course,
			Branch: input.Branch,
			Year:   year,
			Skills: []string{},
		}
	case entity.RoleCompany:
		user.CompanyProfile = &entity.CompanyProfile{
			CompanyName: strings.TrimSpace(input.CompanyName),
		}
	default:
		return nil, apperror.Validation(apperror.Issue{Field: "role", Message: "role must be one of: student company"})
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, err
	}

	return s.issue(ctx, user)
}

// RefreshAccessToken rotates the refresh token: the presented one is revoked
// and can never be used again.
func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !stored.Active(now) {
		return nil, apperror.Unauthorized("refresh token revoked or expired")
	}

	revoked, err := s.tokens.Revoke(ctx, stored.ID, now)
	if err != nil {
		return nil, err
	}
	if !revoked {
		return nil, apperror.Unauthorized("refresh token revoked or expired")
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("account no longer exists")
		}
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout is idempotent: unknown, expired or already revoked tokens are not an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil
	}

	if _, err := s.tokens.Revoke(ctx, jti, s.now()); err != nil {
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user")
		}
		return err
	}

	if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return apperror.Validation(apperror.Issue{Field: "currentPassword", Message: "currentPassword is incorrect"})
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	// every session has to log in again with the new password
	return s.tokens.RevokeAllForUser(ctx, user.ID, s.now())
}

func (s *authService) GoogleLoginURL(state string) (string, error) {
	if s.google == nil {
		return "", apperror.BadRequest("google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if s.google == nil {
		return nil, apperror.BadRequest("google sign-in is not configured")
	}

	googleUser, err := s.google.FetchUser(ctx, code)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "google sign-in failed", err)
	}

	email := strings.ToLower(strings.TrimSpace(googleUser.Email))
	if !googleUser.VerifiedEmail || email == "" {
		return nil, apperror.Unauthorized("google account email is not verified")
	}
	if s.emailDomain != "" && !strings.HasSuffix(email, "@"+s.emailDomain) {
		return nil, apperror.Forbidden(fmt.Sprintf("email domain must be @%s", s.emailDomain))
	}

	user, err := s.users.FindByGoogleID(ctx, googleUser.ID)
	if err == nil {
		return s.issue(ctx, user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleID = &googleUser.ID
		if err := s.users.Update(ctx, user); err != nil {
			log.Printf("Failed to link google account for user %s: %v", user.Email, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.provisionStudent(ctx, googleUser, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.issue(ctx, user)
}

func (s *authService) provisionStudent(ctx context.Context, googleUser *GoogleUser, email string) (*entity.User, error) {
	// the account can only be used through google until a password is set
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(googleUser.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user := &entity.User{
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleStudent,
		GoogleID:     &googleUser.ID,
		StudentProfile: &entity.StudentProfile{
			Year:   1,
			Skills: []string{},
		},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) lookupRefreshToken(ctx context.Context, refreshToken string) (*entity.RefreshToken, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	jti, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	stored, err := s.tokens.FindByID(ctx, jti)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	if stored.TokenHash != token.HashToken(refreshToken) || stored.UserID.String() != claims.Subject {
		return nil, apperror.Unauthorized("invalid refresh token")
	}
	return stored, nil
}

func (s *authService) issue(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	pair, err := s.issuer.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, &entity.RefreshToken{
		ID:        pair.RefreshID,
		UserID:    user.ID,
		TokenHash: token.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:   userDto.NewUserResponse(user),
		Tokens: pair,
	}, nil
}
