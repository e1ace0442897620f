package repository

import (
	"context"
	"time"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobQuery struct {
	Search     string
	Location   string
	CompanyID  *uuid.UUID
	ActiveOnly bool
	Now        time.Time
}

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Job, error)
	FindAll(ctx context.Context, query JobQuery, offset, limit int) ([]*entity.Job, int64, error)
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Omit("Company").Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindByIDs keeps the order of ids, which is the search relevance order.
func (r *jobRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Job, error) {
	if len(ids) == 0 {
		return []*entity.Job{}, nil
	}

	var jobs []*entity.Job
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id IN ?", ids).
		Find(&jobs).Error; err != nil {
		return nil, err
	}

	jobMap := make(map[uuid.UUID]*entity.Job, len(jobs))
	for _, j := range jobs {
		jobMap[j.ID] = j
	}

	ordered := make([]*entity.Job, 0, len(ids))
	for _, id := range ids {
		if j, ok := jobMap[id]; ok {
			ordered = append(ordered, j)
		}
	}
	return ordered, nil
}

func (r *jobRepository) FindAll(ctx context.Context, q JobQuery, offset, limit int) ([]*entity.Job, int64, error) {
	var jobs []*entity.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Job{})

	if q.CompanyID != nil {
		query = query.Where("company_id = ?", *q.CompanyID)
	}

	if q.Location != "" {
		query = query.Where("LOWER(TRIM(location)) = ?", entity.LocationKey(q.Location))
	}

	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	if q.ActiveOnly {
		query = query.Where("is_active = ? AND deadline > ?", true, q.Now)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Company").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Omit("Company").Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *jobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Job{}).Count(&count).Error
	return count, err
}

// CloseExpired deactivates every active job whose deadline has passed.
func (r *jobRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Job{}).
		Where("is_active = ? AND deadline <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
