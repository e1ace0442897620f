package service

import (
	"context"

	"anoa.com/placementportal/internal/entity"
	appRepo "anoa.com/placementportal/internal/modules/application/repository"
	jobRepo "anoa.com/placementportal/internal/modules/job/repository"
	offerRepo "anoa.com/placementportal/internal/modules/offer/repository"
	"anoa.com/placementportal/internal/modules/user/repository"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	Students       int64            `json:"students"`
	Companies      int64            `json:"companies"`
	Jobs           int64            `json:"jobs"`
	Applications   int64            `json:"applications"`
	ByStatus       map[string]int64 `json:"applicationsByStatus"`
	OffersPending  int64            `json:"offersPending"`
	OffersAccepted int64            `json:"offersAccepted"`
}

type StatService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statService struct {
	userRepo  repository.UserRepository
	jobRepo   jobRepo.JobRepository
	appRepo   appRepo.ApplicationRepository
	offerRepo offerRepo.OfferRepository
}

func NewStatService(userRepo repository.UserRepository, jobs jobRepo.JobRepository, applications appRepo.ApplicationRepository, offers offerRepo.OfferRepository) StatService {
	return &statService{
		userRepo:  userRepo,
		jobRepo:   jobs,
		appRepo:   applications,
		offerRepo: offers,
	}
}

func (s *statService) Overview(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Students, err = s.userRepo.CountByRole(ctx, entity.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		stats.Companies, err = s.userRepo.CountByRole(ctx, entity.RoleCompany)
		return err
	})
	g.Go(func() (err error) {
		stats.Jobs, err = s.jobRepo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByStatus, err = s.appRepo.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.OffersPending, err = s.offerRepo.CountByStatus(ctx, entity.OfferPending)
		return err
	})
	g.Go(func() (err error) {
		stats.OffersAccepted, err = s.offerRepo.CountByStatus(ctx, entity.OfferAccepted)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus := map[string]int64{
		entity.ApplicationPending:     0,
		entity.ApplicationShortlisted: 0,
		entity.ApplicationRejected:    0,
		entity.ApplicationSelected:    0,
	}
	for status, count := range stats.ByStatus {
		byStatus[status] = count
		stats.Applications += count
	}
	stats.ByStatus = byStatus

	return stats, nil
}
