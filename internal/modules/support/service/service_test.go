package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/support/dto"
	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSupportRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*entity.SupportMessage
	updates  int
}

func newFakeSupportRepo() *fakeSupportRepo {
	return &fakeSupportRepo{messages: make(map[uuid.UUID]*entity.SupportMessage)}
}

func (r *fakeSupportRepo) Create(_ context.Context, m *entity.SupportMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	stored := *m
	r.messages[m.ID] = &stored
	return nil
}

func (r *fakeSupportRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.SupportMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeSupportRepo) FindAll(_ context.Context, status string, _, _ int) ([]*entity.SupportMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SupportMessage
	for _, m := range r.messages {
		if status == "" || m.Status == status {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSupportRepo) Update(_ context.Context, m *entity.SupportMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	stored := *m
	r.messages[m.ID] = &stored
	return nil
}

type fakeMailer struct {
	to      string
	subject string
	err     error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	m.to, m.subject = to, subject
	return m.err
}

type fakeThrottle struct {
	locked map[string]bool
}

func (t *fakeThrottle) Acquire(_ context.Context, subject, _ string, _ time.Duration) error {
	if t.locked[subject] {
		return &ratelimiter.RateLimitError{Message: "too many requests"}
	}
	t.locked[subject] = true
	return nil
}

func (t *fakeThrottle) Release(_ context.Context, subject, _ string) error {
	delete(t.locked, subject)
	return nil
}

func newTestService() (SupportService, *fakeSupportRepo, *fakeMailer) {
	repo := newFakeSupportRepo()
	mail := &fakeMailer{}
	return NewSupportService(repo, mail, &fakeThrottle{locked: make(map[string]bool)}, time.Minute), repo, mail
}

func validInput() dto.CreateSupportInput {
	return dto.CreateSupportInput{Name: " Ravi ", Email: "Ravi@College.EDU", Subject: "Login", Message: "Cannot log in"}
}

func TestCreate_ThrottledPerEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "ravi@college.edu", created.Email)
	assert.Equal(t, "Ravi", created.Name)
	assert.Equal(t, entity.SupportPending, created.Status)

	input := validInput()
	input.Email = "ravi@college.edu"
	_, err = svc.Create(ctx, input)
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))

	input.Email = "other@college.edu"
	_, err = svc.Create(ctx, input)
	assert.NoError(t, err)
	assert.Len(t, repo.messages, 2)
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	first, err := svc.UpdateStatus(ctx, created.ID, entity.SupportClosed)
	require.NoError(t, err)
	afterFirst := *repo.messages[created.ID]

	second, err := svc.UpdateStatus(ctx, created.ID, entity.SupportClosed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, *repo.messages[created.ID])
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), entity.SupportClosed)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestRespond(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	responded, err := svc.Respond(ctx, created.ID, "  Reset link sent  ")
	require.NoError(t, err)
	assert.Equal(t, entity.SupportResponded, responded.Status)
	require.NotNil(t, responded.Response)
	assert.Equal(t, "Reset link sent", *responded.Response)
	assert.NotNil(t, responded.RespondedAt)
	assert.Equal(t, "ravi@college.edu", mail.to)
	assert.Equal(t, "Re: Login", mail.subject)
	assert.Equal(t, entity.SupportResponded, repo.messages[created.ID].Status)
}

func TestRespond_MailFailureKeepsStatus(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	mail.err = errors.New("smtp down")
	_, err = svc.Respond(ctx, created.ID, "hello")
	assert.Equal(t, http.StatusBadGateway, apperror.MapErrorToStatus(err))
	assert.Equal(t, entity.SupportPending, repo.messages[created.ID].Status)
}
