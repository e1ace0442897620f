package scheduler

import (
	"context"
	"log"
	"time"
)

type ExpiredTokenPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type ExpiredJobCloser interface {
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanupTask deletes refresh tokens past their expiry.
type TokenCleanupTask struct {
	tokens   ExpiredTokenPurger
	schedule string
	now      func() time.Time
}

func NewTokenCleanupTask(tokens ExpiredTokenPurger, schedule string) *TokenCleanupTask {
	return &TokenCleanupTask{tokens: tokens, schedule: schedule, now: time.Now}
}

func (t *TokenCleanupTask) Name() string     { return "refresh-token-cleanup" }
func (t *TokenCleanupTask) Schedule() string { return t.schedule }

func (t *TokenCleanupTask) Run(ctx context.Context) error {
	removed, err := t.tokens.DeleteExpired(ctx, t.now())
	if err != nil {
		return err
	}
	log.Printf("🧹 Removed %d expired refresh tokens", removed)
	return nil
}

// JobExpiryTask deactivates jobs whose application deadline has passed.
type JobExpiryTask struct {
	jobs     ExpiredJobCloser
	schedule string
	now      func() time.Time
}

func NewJobExpiryTask(jobs ExpiredJobCloser, schedule string) *JobExpiryTask {
	return &JobExpiryTask{jobs: jobs, schedule: schedule, now: time.Now}
}

func (t *JobExpiryTask) Name() string     { return "job-expiry" }
func (t *JobExpiryTask) Schedule() string { return t.schedule }

func (t *JobExpiryTask) Run(ctx context.Context) error {
	closed, err := t.jobs.CloseExpired(ctx, t.now())
	if err != nil {
		return err
	}
	if closed > 0 {
		log.Printf("📪 Closed %d jobs past their deadline", closed)
	}
	return nil
}
