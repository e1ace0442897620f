package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/job/dto"
	"anoa.com/placementportal/internal/modules/job/repository"
	search "anoa.com/placementportal/internal/modules/search/service"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type JobService interface {
	Create(ctx context.Context, actor commonDto.Actor, input dto.CreateJobInput) (*entity.Job, error)
	List(ctx context.Context, filter dto.JobFilter) (*commonDto.Paginated[*entity.Job], error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, input dto.UpdateJobInput) (*entity.Job, error)
	Delete(ctx context.Context, actor commonDto.Actor, id uuid.UUID) error
}

type jobService struct {
	repo      repository.JobRepository
	users     userRepo.UserRepository
	indexer   search.JobIndexer
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewJobService accepts a nil indexer; search then falls back to the database.
func NewJobService(repo repository.JobRepository, users userRepo.UserRepository, indexer search.JobIndexer) JobService {
	return &jobService{
		repo:      repo,
		users:     users,
		indexer:   indexer,
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
	}
}

// CanManage reports whether actor may change jobs owned by companyID.
func CanManage(actor commonDto.Actor, companyID uuid.UUID) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleCompany:
		return actor.UserID == companyID
	}
	return false
}

func (s *jobService) Create(ctx context.Context, actor commonDto.Actor, input dto.CreateJobInput) (*entity.Job, error) {
	companyID, err := s.resolveCompany(ctx, actor, input.CompanyID)
	if err != nil {
		return nil, err
	}

	if input.Deadline == nil || !input.Deadline.After(s.now()) {
		return nil, apperror.Validation(apperror.Issue{Field: "deadline", Message: "deadline must be in the future"})
	}

	job := &entity.Job{
		CompanyID:        companyID,
		Title:            strings.TrimSpace(input.Title),
		Description:      s.sanitizer.Sanitize(input.Description),
		Location:         strings.TrimSpace(input.Location),
		Package:          input.Package,
		Eligibility:      s.sanitizer.Sanitize(input.Eligibility),
		EligibleBranches: trimAll(input.EligibleBranches),
		MinCGPA:          input.MinCGPA,
		Deadline:         *input.Deadline,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	s.index(created)
	return created, nil
}

func (s *jobService) resolveCompany(ctx context.Context, actor commonDto.Actor, requested string) (uuid.UUID, error) {
	if actor.Role == entity.RoleCompany {
		return actor.UserID, nil
	}
	if actor.Role != entity.RoleAdmin {
		return uuid.Nil, apperror.Forbidden("only companies and admins can post jobs")
	}

	invalid := apperror.Validation(apperror.Issue{Field: "companyId", Message: "companyId must reference an existing company"})
	if requested == "" {
		return uuid.Nil, apperror.Validation(apperror.Issue{Field: "companyId", Message: "companyId is required"})
	}
	companyID, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, invalid
	}

	company, err := s.users.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, invalid
		}
		return uuid.Nil, err
	}
	if company.Role != entity.RoleCompany {
		return uuid.Nil, invalid
	}
	return companyID, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *jobService) index(job *entity.Job) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexJob(job); err != nil {
		log.Printf("Failed to index job %s: %v", job.ID, err)
	}
}

func (s *jobService) List(ctx context.Context, filter dto.JobFilter) (*commonDto.Paginated[*entity.Job], error) {
	page, limit, offset := filter.Resolve()

	var companyID *uuid.UUID
	if filter.CompanyID != "" {
		id, err := uuid.Parse(filter.CompanyID)
		if err != nil {
			return nil, apperror.Validation(apperror.Issue{Field: "companyId", Message: "companyId must be a valid id"})
		}
		companyID = &id
	}

	term := strings.TrimSpace(filter.Search)
	location := strings.TrimSpace(filter.Location)

	if term != "" && s.indexer != nil {
		jobs, total, err := s.searchIndex(ctx, term, companyID, location, filter.ActiveOnly, offset, limit)
		if err == nil {
			return commonDto.NewPaginated(jobs, page, limit, total), nil
		}
		log.Printf("Job search index unavailable, falling back to database: %v", err)
	}

	jobs, total, err := s.repo.FindAll(ctx, repository.JobQuery{
		Search:     term,
		Location:   location,
		CompanyID:  companyID,
		ActiveOnly: filter.ActiveOnly,
		Now:        s.now(),
	}, offset, limit)
	if err != nil {
		return nil, err
	}
	return commonDto.NewPaginated(jobs, page, limit, total), nil
}

func (s *jobService) searchIndex(ctx context.Context, query string, companyID *uuid.UUID, location string, activeOnly bool, offset, limit int) ([]*entity.Job, int64, error) {
	ids, total, err := s.indexer.SearchJobIDs(query, search.JobSearchFilter{
		CompanyID:  companyID,
		Location:   location,
		ActiveOnly: activeOnly,
	}, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	jobs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (s *jobService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("job")
		}
		return nil, err
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, actor commonDto.Actor, id uuid.UUID, input dto.UpdateJobInput) (*entity.Job, error) {
	job, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, job.CompanyID) {
		return nil, apperror.Forbidden("you can only manage your own jobs")
	}

	if input.Title != nil {
		job.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		job.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.Location != nil {
		job.Location = strings.TrimSpace(*input.Location)
	}
	if input.Package != nil {
		job.Package = *input.Package
	}
	if input.Eligibility != nil {
		job.Eligibility = s.sanitizer.Sanitize(*input.Eligibility)
	}
	if input.EligibleBranches != nil {
		job.EligibleBranches = trimAll(input.EligibleBranches)
	}
	if input.MinCGPA != nil {
		job.MinCGPA = input.MinCGPA
	}
	if input.Deadline != nil {
		if !input.Deadline.After(s.now()) {
			return nil, apperror.Validation(apperror.Issue{Field: "deadline", Message: "deadline must be in the future"})
		}
		job.Deadline = *input.Deadline
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	s.index(job)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, actor commonDto.Actor, id uuid.UUID) error {
	job, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanManage(actor, job.CompanyID) {
		return apperror.Forbidden("you can only manage your own jobs")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteJob(id); err != nil {
			log.Printf("Failed to remove job %s from index: %v", id, err)
		}
	}
	return nil
}
