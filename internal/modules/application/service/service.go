package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/application/dto"
	"anoa.com/placementportal/internal/modules/application/repository"
	jobRepo "anoa.com/placementportal/internal/modules/job/repository"
	job "anoa.com/placementportal/internal/modules/job/service"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const applyAction = "apply"

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Notify(ctx context.Context, notification *entity.Notification) error
}

// Throttle guards an action per subject. *ratelimiter.Limiter satisfies it.
type Throttle interface {
	Acquire(ctx context.Context, subject, action string, window time.Duration) error
	Release(ctx context.Context, subject, action string) error
}

type ApplicationService interface {
	Apply(ctx context.Context, studentID uuid.UUID, input dto.ApplyInput) (*entity.Application, error)
	ListMine(ctx context.Context, studentID uuid.UUID, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error)
	ListForJob(ctx context.Context, actor commonDto.Actor, jobID uuid.UUID, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error)
	List(ctx context.Context, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error)
	GetByID(ctx context.Context, actor commonDto.Actor, id uuid.UUID) (*entity.Application, error)
	UpdateStatus(ctx context.Context, actor commonDto.Actor, id uuid.UUID, status string) (*entity.Application, error)
	Export(ctx context.Context, w io.Writer) error
}

type applicationService struct {
	repo        repository.ApplicationRepository
	jobs        jobRepo.JobRepository
	users       userRepo.UserRepository
	notifier    Notifier
	throttle    Throttle
	applyWindow time.Duration
	now         func() time.Time
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	jobs jobRepo.JobRepository,
	users userRepo.UserRepository,
	notifier Notifier,
	throttle Throttle,
	applyWindow time.Duration,
) ApplicationService {
	return &applicationService{
		repo:        repo,
		jobs:        jobs,
		users:       users,
		notifier:    notifier,
		throttle:    throttle,
		applyWindow: applyWindow,
		now:         time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, studentID uuid.UUID, input dto.ApplyInput) (*entity.Application, error) {
	jobID, err := uuid.Parse(input.JobID)
	if err != nil {
		return nil, apperror.Validation(apperror.Issue{Field: "jobId", Message: "must be a valid UUID"})
	}

	if s.throttle != nil {
		if err := s.throttle.Acquire(ctx, studentID.String(), applyAction, s.applyWindow); err != nil {
			return nil, err
		}
	}

	application, err := s.apply(ctx, studentID, jobID, input)
	if err != nil && s.throttle != nil {
		// a rejected attempt should not lock the student out
		if relErr := s.throttle.Release(ctx, studentID.String(), applyAction); relErr != nil {
			log.Printf("Failed to release apply throttle for %s: %v", studentID, relErr)
		}
	}
	return application, err
}

func (s *applicationService) apply(ctx context.Context, studentID, jobID uuid.UUID, input dto.ApplyInput) (*entity.Application, error) {
	target, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Validation(apperror.Issue{Field: "jobId", Message: "job does not exist"})
		}
		return nil, err
	}
	if !target.IsOpen(s.now()) {
		return nil, apperror.BadRequest("job is no longer accepting applications")
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := checkEligibility(target, student.StudentProfile); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, jobID, studentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("you have already applied to this job")
	}

	application := &entity.Application{
		JobID:     jobID,
		StudentID: studentID,
		ResumeURL: strings.TrimSpace(input.ResumeURL),
		Status:    entity.ApplicationPending,
	}
	if letter := strings.TrimSpace(input.CoverLetter); letter != "" {
		application.CoverLetter = &letter
	}

	if err := s.repo.Create(ctx, application); err != nil {
		// concurrent duplicate slipped past Exists
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("you have already applied to this job")
		}
		return nil, err
	}

	s.notify(ctx, &entity.Notification{
		UserID:   target.CompanyID,
		Type:     entity.NotificationNewApplication,
		Title:    "New application",
		Message:  fmt.Sprintf("%s applied for %s", student.FullName, target.Title),
		EntityID: &application.ID,
	})

	return application, nil
}

func checkEligibility(target *entity.Job, profile *entity.StudentProfile) error {
	if len(target.EligibleBranches) > 0 {
		eligible := false
		if profile != nil {
			for _, branch := range target.EligibleBranches {
				if strings.EqualFold(branch, profile.Branch) {
					eligible = true
					break
				}
			}
		}
		if !eligible {
			return apperror.BadRequest("your branch is not eligible for this job")
		}
	}

	if target.MinCGPA != nil {
		if profile == nil || profile.CGPA == nil || *profile.CGPA < *target.MinCGPA {
			return apperror.BadRequest(fmt.Sprintf("a minimum CGPA of %.2f is required", *target.MinCGPA))
		}
	}

	return nil
}

func (s *applicationService) ListMine(ctx context.Context, studentID uuid.UUID, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error) {
	return s.list(ctx, repository.ApplicationQuery{StudentID: &studentID, Status: filter.Status}, filter.PageQuery)
}

func (s *applicationService) ListForJob(ctx context.Context, actor commonDto.Actor, jobID uuid.UUID, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error) {
	target, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("job")
		}
		return nil, err
	}
	if !job.CanManage(actor, target.CompanyID) {
		return nil, apperror.Forbidden("you can only view applications for your own jobs")
	}

	return s.list(ctx, repository.ApplicationQuery{JobID: &jobID, Status: filter.Status}, filter.PageQuery)
}

func (s *applicationService) List(ctx context.Context, filter dto.ApplicationFilter) (*commonDto.Paginated[*entity.Application], error) {
	return s.list(ctx, repository.ApplicationQuery{Status: filter.Status}, filter.PageQuery)
}

func (s *applicationService) list(ctx context.Context, query repository.ApplicationQuery, page commonDto.PageQuery) (*commonDto.Paginated[*entity.Application], error) {
	current, limit, offset := page.Resolve()

	applications, total, err := s.repo.FindAll(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(applications, current, limit, total), nil
}

func (s *applicationService) GetByID(ctx context.Context, actor commonDto.Actor, id uuid.UUID) (*entity.Application, error) {
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(actor, application) {
		// do not reveal that someone else's application exists
		return nil, apperror.NotFound("application")
	}
	return application, nil
}

func canView(actor commonDto.Actor, application *entity.Application) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleStudent:
		return application.StudentID == actor.UserID
	case entity.RoleCompany:
		return application.Job != nil && application.Job.CompanyID == actor.UserID
	}
	return false
}

func (s *applicationService) UpdateStatus(ctx context.Context, actor commonDto.Actor, id uuid.UUID, status string) (*entity.Application, error) {
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.Job == nil || !job.CanManage(actor, application.Job.CompanyID) {
		return nil, apperror.Forbidden("you can only update applications for your own jobs")
	}

	if application.Status == status {
		return application, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	application.Status = status

	s.notify(ctx, &entity.Notification{
		UserID:   application.StudentID,
		Type:     entity.NotificationApplicationStatus,
		Title:    "Application status updated",
		Message:  fmt.Sprintf("Your application for %s is now %s", application.Job.Title, status),
		EntityID: &application.ID,
	})

	return application, nil
}

func (s *applicationService) Export(ctx context.Context, w io.Writer) error {
	applications, err := s.repo.FindAllForExport(ctx)
	if err != nil {
		return err
	}

	file, err := BuildWorkbook(applications)
	if err != nil {
		return err
	}
	return file.Write(w)
}

func (s *applicationService) find(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("application")
		}
		return nil, err
	}
	return application, nil
}

func (s *applicationService) notify(ctx context.Context, notification *entity.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, notification); err != nil {
		log.Printf("Failed to send %s notification to %s: %v", notification.Type, notification.UserID, err)
	}
}
