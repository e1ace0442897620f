package repository

import (
	"context"

	"anoa.com/placementportal/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportRepository interface {
	Create(ctx context.Context, message *entity.SupportMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SupportMessage, error)
	FindAll(ctx context.Context, status string, offset, limit int) ([]*entity.SupportMessage, int64, error)
	Update(ctx context.Context, message *entity.SupportMessage) error
}

type supportRepository struct {
	db *gorm.DB
}

func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &supportRepository{db: db}
}

func (r *supportRepository) Create(ctx context.Context, message *entity.SupportMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *supportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SupportMessage, error) {
	var message entity.SupportMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *supportRepository) FindAll(ctx context.Context, status string, offset, limit int) ([]*entity.SupportMessage, int64, error) {
	var messages []*entity.SupportMessage
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupportMessage{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *supportRepository) Update(ctx context.Context, message *entity.SupportMessage) error {
	return r.db.WithContext(ctx).Save(message).Error
}
