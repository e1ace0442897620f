package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/placementportal/internal/entity"
	appRepo "anoa.com/placementportal/internal/modules/application/repository"
	application "anoa.com/placementportal/internal/modules/application/service"
	job "anoa.com/placementportal/internal/modules/job/service"
	"anoa.com/placementportal/internal/modules/offer/dto"
	"anoa.com/placementportal/internal/modules/offer/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferService interface {
	Create(ctx context.Context, actor commonDto.Actor, input dto.CreateOfferInput) (*entity.Offer, error)
	Respond(ctx context.Context, studentID, id uuid.UUID, action string) (*entity.Offer, error)
	ListMine(ctx context.Context, studentID uuid.UUID, filter dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error)
	List(ctx context.Context, actor commonDto.Actor, filter dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error)
}

type offerService struct {
	repo         repository.OfferRepository
	applications appRepo.ApplicationRepository
	notifier     application.Notifier
	now          func() time.Time
}

func NewOfferService(repo repository.OfferRepository, applications appRepo.ApplicationRepository, notifier application.Notifier) OfferService {
	return &offerService{
		repo:         repo,
		applications: applications,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *offerService) Create(ctx context.Context, actor commonDto.Actor, input dto.CreateOfferInput) (*entity.Offer, error) {
	if input.OfferedCTC <= 0 {
		return nil, apperror.Validation(apperror.Issue{Field: "offeredCtc", Message: "must be greater than 0"})
	}
	if input.JoiningDate == nil {
		return nil, apperror.Validation(apperror.Issue{Field: "joiningDate", Message: "is required"})
	}

	applicationID, err := uuid.Parse(input.ApplicationID)
	if err != nil {
		return nil, apperror.Validation(apperror.Issue{Field: "applicationId", Message: "must be a valid UUID"})
	}

	target, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation(apperror.Issue{Field: "applicationId", Message: "application does not exist"})
		}
		return nil, err
	}
	if target.Job == nil || !job.CanManage(actor, target.Job.CompanyID) {
		return nil, apperror.Forbidden("you can only make offers for your own jobs")
	}
	if target.Status == entity.ApplicationRejected {
		return nil, apperror.BadRequest("cannot make an offer on a rejected application")
	}

	exists, err := s.repo.ExistsForApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("an offer already exists for this application")
	}

	offer := &entity.Offer{
		ApplicationID: applicationID,
		OfferedCTC:    input.OfferedCTC,
		JoiningDate:   input.JoiningDate.UTC(),
		Status:        entity.OfferPending,
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("an offer already exists for this application")
		}
		return nil, err
	}
	target.Status = entity.ApplicationSelected
	offer.Application = target

	s.notify(ctx, &entity.Notification{
		UserID:   target.StudentID,
		Type:     entity.NotificationOffer,
		Title:    "You received an offer",
		Message:  fmt.Sprintf("Offer for %s with CTC %.2f, joining %s", target.Job.Title, offer.OfferedCTC, offer.JoiningDate.Format("2006-01-02")),
		EntityID: &offer.ID,
	})

	return offer, nil
}

func (s *offerService) Respond(ctx context.Context, studentID, id uuid.UUID, action string) (*entity.Offer, error) {
	if action != entity.OfferAccepted && action != entity.OfferRejected {
		return nil, apperror.Validation(apperror.Issue{Field: "action", Message: "must be one of: accepted rejected"})
	}

	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("offer")
		}
		return nil, err
	}
	if offer.Application == nil || offer.Application.StudentID != studentID {
		return nil, apperror.NotFound("offer")
	}
	if offer.Status != entity.OfferPending {
		return nil, apperror.Conflict("offer has already been " + offer.Status)
	}

	at := s.now().UTC()
	ok, err := s.repo.Respond(ctx, id, action, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("offer is no longer pending")
	}
	offer.Status = action
	offer.RespondedAt = &at

	if offer.Application.Job != nil {
		s.notify(ctx, &entity.Notification{
			UserID:   offer.Application.Job.CompanyID,
			Type:     entity.NotificationOfferResponse,
			Title:    "Offer " + action,
			Message:  fmt.Sprintf("Your offer for %s was %s", offer.Application.Job.Title, action),
			EntityID: &offer.ID,
		})
	}

	return offer, nil
}

func (s *offerService) ListMine(ctx context.Context, studentID uuid.UUID, filter dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error) {
	return s.list(ctx, repository.OfferQuery{StudentID: &studentID, Status: filter.Status}, filter.PageQuery)
}

func (s *offerService) List(ctx context.Context, actor commonDto.Actor, filter dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error) {
	query := repository.OfferQuery{Status: filter.Status}
	switch actor.Role {
	case entity.RoleAdmin:
	case entity.RoleCompany:
		query.CompanyID = &actor.UserID
	default:
		return nil, apperror.Forbidden("insufficient permissions")
	}
	return s.list(ctx, query, filter.PageQuery)
}

func (s *offerService) list(ctx context.Context, query repository.OfferQuery, page commonDto.PageQuery) (*commonDto.Paginated[*entity.Offer], error) {
	current, limit, offset := page.Resolve()

	offers, total, err := s.repo.FindAll(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(offers, current, limit, total), nil
}

func (s *offerService) notify(ctx context.Context, notification *entity.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		log.Printf("Failed to send %s notification to %s: %v", notification.Type, notification.UserID, err)
	}
}
