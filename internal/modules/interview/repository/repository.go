package repository

import (
	"context"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewQuery struct {
	StudentID *uuid.UUID
	CompanyID *uuid.UUID
	Status    string
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *entity.Interview) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error)
	FindAll(ctx context.Context, query InterviewQuery, offset, limit int) ([]*entity.Interview, int64, error)
	Update(ctx context.Context, interview *entity.Interview) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Application").
		Preload("Application.Job").
		Preload("Application.Job.Company").
		Preload("Application.Student")
}

// Create stores the interview and, in the same transaction, moves a pending
// application to shortlisted.
func (r *interviewRepository) Create(ctx context.Context, interview *entity.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Application").Create(interview).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Application{}).
			Where("id = ? AND status = ?", interview.ApplicationID, entity.ApplicationPending).
			Update("status", entity.ApplicationShortlisted).Error
	})
}

func (r *interviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error) {
	var interview entity.Interview
	if err := r.preload(r.db.WithContext(ctx)).
		Where("interviews.id = ?", id).
		First(&interview).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindAll(ctx context.Context, q InterviewQuery, offset, limit int) ([]*entity.Interview, int64, error) {
	var interviews []*entity.Interview
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Interview{}).
		Joins("JOIN applications ON applications.id = interviews.application_id")

	if q.StudentID != nil {
		query = query.Where("applications.student_id = ?", *q.StudentID)
	}
	if q.CompanyID != nil {
		query = query.
			Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.company_id = ?", *q.CompanyID)
	}
	if q.Status != "" {
		query = query.Where("interviews.status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preload(query).
		Order("interviews.scheduled_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&interviews).Error; err != nil {
		return nil, 0, err
	}

	return interviews, total, nil
}

func (r *interviewRepository) Update(ctx context.Context, interview *entity.Interview) error {
	return r.db.WithContext(ctx).Omit("Application").Save(interview).Error
}
