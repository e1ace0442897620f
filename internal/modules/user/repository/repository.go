package repository

import (
	"context"
	"strings"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFilter narrows FindAll. Zero values are ignored.
type UserFilter struct {
	Role   string
	Search string
	Branch string
	Year   int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SaveStudentProfile(ctx context.Context, profile *entity.StudentProfile) error
	SaveCompanyProfile(ctx context.Context, profile *entity.CompanyProfile) error
	FindAll(ctx context.Context, filter UserFilter, offset, limit int) ([]*entity.User, int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and whichever profile is attached in one transaction.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}

		if user.StudentProfile != nil {
			user.StudentProfile.UserID = user.ID
			if err := tx.Create(user.StudentProfile).Error; err != nil {
				return err
			}
		}

		if user.CompanyProfile != nil {
			user.CompanyProfile.UserID = user.ID
			if err := tx.Create(user.CompanyProfile).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("CompanyProfile")
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.withProfiles(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.withProfiles(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	var user entity.User
	if err := r.withProfiles(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SaveStudentProfile(ctx context.Context, profile *entity.StudentProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *userRepository) SaveCompanyProfile(ctx context.Context, profile *entity.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *userRepository) FindAll(ctx context.Context, filter UserFilter, offset, limit int) ([]*entity.User, int64, error) {
	var users []*entity.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.User{})

	if filter.Role != "" {
		query = query.Where("users.role = ?", filter.Role)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("users.full_name ILIKE ? OR users.email ILIKE ?", like, like)
	}

	if filter.Branch != "" || filter.Year > 0 {
		query = query.Joins("JOIN student_profiles ON student_profiles.user_id = users.id")
		if filter.Branch != "" {
			query = query.Where("student_profiles.branch ILIKE ?", filter.Branch)
		}
		if filter.Year > 0 {
			query = query.Where("student_profiles.year = ?", filter.Year)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("StudentProfile").
		Preload("CompanyProfile").
		Order("users.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
