package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"anoa.com/placementportal/internal/entity"
	notifRepo "anoa.com/placementportal/internal/modules/notification/repository"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/mailer"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel carrying a user's live notifications.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	// Notify persists the notification, pushes it to live subscribers and
	// emails the recipient. Only the persistence error is returned.
	Notify(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) (*commonDto.Paginated[entity.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	users       userRepo.UserRepository
	mailer      mailer.Mailer
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, users userRepo.UserRepository, mail mailer.Mailer, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		users:       users,
		mailer:      mail,
		redisClient: redisClient,
	}
}

func (s *notificationService) Notify(ctx context.Context, notification *entity.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			if err := s.redisClient.Publish(ctx, Channel(notification.UserID), payload).Err(); err != nil {
				log.Printf("Failed to publish notification %s: %v", notification.ID, err)
			}
		}
	}

	// 3. Email the recipient
	if s.mailer != nil && s.users != nil {
		user, err := s.users.FindByID(ctx, notification.UserID)
		if err != nil {
			log.Printf("Failed to load recipient %s for notification email: %v", notification.UserID, err)
			return nil
		}
		if err := s.mailer.Send(ctx, user.Email, notification.Title, notification.Message); err != nil {
			log.Printf("Failed to email notification %s: %v", notification.ID, err)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, query commonDto.PageQuery) (*commonDto.Paginated[entity.Notification], error) {
	page, limit, offset := query.Resolve()

	notifications, total, err := s.repo.FindByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return commonDto.NewPaginated(notifications, page, limit, total), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	updated, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !updated {
		return apperror.NotFound("notification")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
