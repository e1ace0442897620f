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
	"anoa.com/placementportal/internal/modules/support/dto"
	"anoa.com/placementportal/internal/modules/support/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/mailer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const supportAction = "support"

// Throttle limits how often one sender may open a ticket.
type Throttle interface {
	Acquire(ctx context.Context, subject, action string, window time.Duration) error
	Release(ctx context.Context, subject, action string) error
}

type SupportService interface {
	Create(ctx context.Context, input dto.CreateSupportInput) (*entity.SupportMessage, error)
	List(ctx context.Context, filter dto.SupportFilter) (*commonDto.Paginated[*entity.SupportMessage], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.SupportMessage, error)
	Respond(ctx context.Context, id uuid.UUID, reply string) (*entity.SupportMessage, error)
}

type supportService struct {
	repo     repository.SupportRepository
	mailer   mailer.Mailer
	throttle Throttle
	window   time.Duration
	now      func() time.Time
}

func NewSupportService(repo repository.SupportRepository, mail mailer.Mailer, throttle Throttle, window time.Duration) SupportService {
	return &supportService{
		repo:     repo,
		mailer:   mail,
		throttle: throttle,
		window:   window,
		now:      time.Now,
	}
}

func (s *supportService) Create(ctx context.Context, input dto.CreateSupportInput) (*entity.SupportMessage, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if s.throttle != nil {
		if err := s.throttle.Acquire(ctx, email, supportAction, s.window); err != nil {
			return nil, err
		}
	}

	message := &entity.SupportMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  entity.SupportPending,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		if s.throttle != nil {
			if relErr := s.throttle.Release(ctx, email, supportAction); relErr != nil {
				log.Printf("Failed to release support throttle for %s: %v", email, relErr)
			}
		}
		return nil, err
	}

	return message, nil
}

func (s *supportService) List(ctx context.Context, filter dto.SupportFilter) (*commonDto.Paginated[*entity.SupportMessage], error) {
	page, limit, offset := filter.Resolve()

	messages, total, err := s.repo.FindAll(ctx, filter.Status, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(messages, page, limit, total), nil
}

// UpdateStatus is idempotent: setting the current status again writes nothing.
func (s *supportService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.SupportMessage, error) {
	message, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if message.Status == status {
		return message, nil
	}

	message.Status = status
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *supportService) Respond(ctx context.Context, id uuid.UUID, reply string) (*entity.SupportMessage, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, apperror.Validation(apperror.Issue{Field: "response", Message: "This field is required"})
	}

	message, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hi %s,\n\n%s\n\n---\nYour message:\n%s", message.Name, reply, message.Message)
	if err := s.mailer.Send(ctx, message.Email, "Re: "+message.Subject, body); err != nil {
		return nil, apperror.New(http.StatusBadGateway, "failed to deliver reply", err)
	}

	at := s.now().UTC()
	message.Response = &reply
	message.RespondedAt = &at
	message.Status = entity.SupportResponded
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *supportService) find(ctx context.Context, id uuid.UUID) (*entity.SupportMessage, error) {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("support message")
		}
		return nil, err
	}
	return message, nil
}
