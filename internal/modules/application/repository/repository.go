package repository

import (
	"context"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationQuery struct {
	StudentID *uuid.UUID
	JobID     *uuid.UUID
	CompanyID *uuid.UUID
	Status    string
}

type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	Exists(ctx context.Context, jobID, studentID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, query ApplicationQuery, offset, limit int) ([]*entity.Application, int64, error)
	FindAllForExport(ctx context.Context) ([]*entity.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByResumeURL(ctx context.Context, url string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Job").
		Preload("Job.Company").
		Preload("Student").
		Preload("Student.StudentProfile")
}

func (r *applicationRepository) Create(ctx context.Context, application *entity.Application) error {
	return r.db.WithContext(ctx).Omit("Job", "Student").Create(application).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var application entity.Application
	if err := r.preload(r.db.WithContext(ctx)).
		Where("applications.id = ?", id).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) Exists(ctx context.Context, jobID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepository) CountByResumeURL(ctx context.Context, url string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Where("resume_url = ?", url).
		Count(&count).Error
	return count, err
}

func (r *applicationRepository) FindAll(ctx context.Context, q ApplicationQuery, offset, limit int) ([]*entity.Application, int64, error) {
	var applications []*entity.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Application{})

	if q.StudentID != nil {
		query = query.Where("applications.student_id = ?", *q.StudentID)
	}
	if q.JobID != nil {
		query = query.Where("applications.job_id = ?", *q.JobID)
	}
	if q.CompanyID != nil {
		query = query.
			Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.company_id = ?", *q.CompanyID)
	}
	if q.Status != "" {
		query = query.Where("applications.status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preload(query).
		Order("applications.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *applicationRepository) FindAllForExport(ctx context.Context) ([]*entity.Application, error) {
	var applications []*entity.Application
	err := r.preload(r.db.WithContext(ctx)).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
