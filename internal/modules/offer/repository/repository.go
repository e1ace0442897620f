package repository

import (
	"context"
	"time"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferQuery struct {
	StudentID *uuid.UUID
	CompanyID *uuid.UUID
	Status    string
}

type OfferRepository interface {
	// Create stores the offer and marks its application selected in one transaction.
	Create(ctx context.Context, offer *entity.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
	ExistsForApplication(ctx context.Context, applicationID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, query OfferQuery, offset, limit int) ([]*entity.Offer, int64, error)
	// Respond moves a pending offer to status. It reports false when the
	// offer was no longer pending.
	Respond(ctx context.Context, id uuid.UUID, status string, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Application").
		Preload("Application.Job").
		Preload("Application.Job.Company").
		Preload("Application.Student")
}

func (r *offerRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Application").Create(offer).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Application{}).
			Where("id = ?", offer.ApplicationID).
			Update("status", entity.ApplicationSelected).Error
	})
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var offer entity.Offer
	if err := r.preload(r.db.WithContext(ctx)).
		Where("offers.id = ?", id).
		First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) ExistsForApplication(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Offer{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	return count > 0, err
}

func (r *offerRepository) FindAll(ctx context.Context, q OfferQuery, offset, limit int) ([]*entity.Offer, int64, error) {
	var offers []*entity.Offer
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Offer{}).
		Joins("JOIN applications ON applications.id = offers.application_id")

	if q.StudentID != nil {
		query = query.Where("applications.student_id = ?", *q.StudentID)
	}
	if q.CompanyID != nil {
		query = query.
			Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.company_id = ?", *q.CompanyID)
	}
	if q.Status != "" {
		query = query.Where("offers.status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.preload(query).
		Order("offers.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

func (r *offerRepository) Respond(ctx context.Context, id uuid.UUID, status string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Offer{}).
		Where("id = ? AND status = ?", id, entity.OfferPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *offerRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Offer{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
