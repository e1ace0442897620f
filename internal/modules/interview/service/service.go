package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/placementportal/internal/entity"
	appRepo "anoa.com/placementportal/internal/modules/application/repository"
	application "anoa.com/placementportal/internal/modules/application/service"
	"anoa.com/placementportal/internal/modules/interview/dto"
	"anoa.com/placementportal/internal/modules/interview/repository"
	job "anoa.com/placementportal/internal/modules/job/service"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewService interface {
	Schedule(ctx context.Context, actor commonDto.Actor, input dto.ScheduleInterviewInput) (*entity.Interview, error)
	ListMine(ctx context.Context, studentID uuid.UUID, filter dto.InterviewFilter) (*commonDto.Paginated[*entity.Interview], error)
	List(ctx context.Context, actor commonDto.Actor, filter dto.InterviewFilter) (*commonDto.Paginated[*entity.Interview], error)
	Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, input dto.UpdateInterviewInput) (*entity.Interview, error)
}

type interviewService struct {
	repo         repository.InterviewRepository
	applications appRepo.ApplicationRepository
	notifier     application.Notifier
	now          func() time.Time
}

func NewInterviewService(repo repository.InterviewRepository, applications appRepo.ApplicationRepository, notifier application.Notifier) InterviewService {
	return &interviewService{
		repo:         repo,
		applications: applications,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *interviewService) Schedule(ctx context.Context, actor commonDto.Actor, input dto.ScheduleInterviewInput) (*entity.Interview, error) {
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
		return nil, apperror.Forbidden("you can only schedule interviews for your own jobs")
	}
	if target.Status == entity.ApplicationRejected {
		return nil, apperror.BadRequest("cannot schedule an interview for a rejected application")
	}

	if input.ScheduledAt == nil || !input.ScheduledAt.After(s.now()) {
		return nil, apperror.Validation(apperror.Issue{Field: "scheduledAt", Message: "must be in the future"})
	}

	round := 1
	if input.Round != nil {
		round = *input.Round
	}

	interview := &entity.Interview{
		ApplicationID: applicationID,
		ScheduledAt:   input.ScheduledAt.UTC(),
		Mode:          input.Mode,
		Round:         round,
		Location:      optional(input.Location),
		MeetingLink:   optional(input.MeetingLink),
		Status:        entity.InterviewScheduled,
		Result:        entity.ResultPending,
	}

	if err := s.repo.Create(ctx, interview); err != nil {
		return nil, err
	}

	if target.Status == entity.ApplicationPending {
		target.Status = entity.ApplicationShortlisted
	}
	interview.Application = target

	s.notify(ctx, &entity.Notification{
		UserID:   target.StudentID,
		Type:     entity.NotificationInterview,
		Title:    "Interview scheduled",
		Message:  fmt.Sprintf("Round %d for %s on %s (%s)", round, target.Job.Title, interview.ScheduledAt.Format(time.RFC1123), interview.Mode),
		EntityID: &interview.ID,
	})

	return interview, nil
}

func (s *interviewService) ListMine(ctx context.Context, studentID uuid.UUID, filter dto.InterviewFilter) (*commonDto.Paginated[*entity.Interview], error) {
	return s.list(ctx, repository.InterviewQuery{StudentID: &studentID, Status: filter.Status}, filter.PageQuery)
}

func (s *interviewService) List(ctx context.Context, actor commonDto.Actor, filter dto.InterviewFilter) (*commonDto.Paginated[*entity.Interview], error) {
	query := repository.InterviewQuery{Status: filter.Status}
	switch actor.Role {
	case entity.RoleAdmin:
	case entity.RoleCompany:
		query.CompanyID = &actor.UserID
	default:
		return nil, apperror.Forbidden("insufficient permissions")
	}
	return s.list(ctx, query, filter.PageQuery)
}

func (s *interviewService) list(ctx context.Context, query repository.InterviewQuery, page commonDto.PageQuery) (*commonDto.Paginated[*entity.Interview], error) {
	current, limit, offset := page.Resolve()

	interviews, total, err := s.repo.FindAll(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(interviews, current, limit, total), nil
}

func (s *interviewService) Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, input dto.UpdateInterviewInput) (*entity.Interview, error) {
	interview, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("interview")
		}
		return nil, err
	}

	app := interview.Application
	if app == nil || app.Job == nil || !job.CanManage(actor, app.Job.CompanyID) {
		return nil, apperror.Forbidden("you can only update interviews for your own jobs")
	}
	if interview.Status == entity.InterviewCancelled && input.ScheduledAt != nil {
		return nil, apperror.Conflict("a cancelled interview cannot be rescheduled")
	}

	if input.ScheduledAt != nil {
		if !input.ScheduledAt.After(s.now()) {
			return nil, apperror.Validation(apperror.Issue{Field: "scheduledAt", Message: "must be in the future"})
		}
		interview.ScheduledAt = input.ScheduledAt.UTC()
	}
	if input.Status != nil {
		interview.Status = *input.Status
	}
	if input.Result != nil {
		interview.Result = *input.Result
	}
	if input.Location != nil {
		interview.Location = optional(*input.Location)
	}
	if input.MeetingLink != nil {
		interview.MeetingLink = optional(*input.MeetingLink)
	}

	if err := s.repo.Update(ctx, interview); err != nil {
		return nil, err
	}

	s.notify(ctx, &entity.Notification{
		UserID:   app.StudentID,
		Type:     entity.NotificationInterviewUpdate,
		Title:    "Interview updated",
		Message:  fmt.Sprintf("Round %d for %s is %s, result %s", interview.Round, app.Job.Title, interview.Status, interview.Result),
		EntityID: &interview.ID,
	})

	return interview, nil
}

func (s *interviewService) notify(ctx context.Context, notification *entity.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		log.Printf("Failed to send %s notification to %s: %v", notification.Type, notification.UserID, err)
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
