package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"

	"anoa.com/placementportal/internal/entity"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []*entity.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.items = append(r.items, n)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []entity.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			mine = append(mine, *n)
		}
	}
	total := int64(len(mine))
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeUsers struct {
	userRepo.UserRepository
	users map[uuid.UUID]*entity.User
}

func (r *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func TestNotify_PersistsAndEmails(t *testing.T) {
	student := &entity.User{ID: uuid.New(), Email: "s@college.edu", Role: entity.RoleStudent}
	repo := &fakeNotificationRepo{}
	mail := &fakeMailer{}
	svc := NewNotificationService(repo, &fakeUsers{users: map[uuid.UUID]*entity.User{student.ID: student}}, mail, nil)

	err := svc.Notify(context.Background(), &entity.Notification{
		UserID:  student.ID,
		Type:    entity.NotificationApplicationStatus,
		Title:   "Application shortlisted",
		Message: "You have been shortlisted",
	})
	require.NoError(t, err)

	require.Len(t, repo.items, 1)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "s@college.edu", mail.sent[0].to)
	assert.Equal(t, "Application shortlisted", mail.sent[0].subject)
}

func TestNotify_MailFailureIsNotSurfaced(t *testing.T) {
	student := &entity.User{ID: uuid.New(), Email: "s@college.edu"}
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, &fakeUsers{users: map[uuid.UUID]*entity.User{student.ID: student}}, &fakeMailer{err: errors.New("smtp down")}, nil)

	assert.NoError(t, svc.Notify(context.Background(), &entity.Notification{UserID: student.ID, Title: "t"}))
	assert.Len(t, repo.items, 1)

	// unknown recipient: stored, no email
	assert.NoError(t, svc.Notify(context.Background(), &entity.Notification{UserID: uuid.New(), Title: "t"}))
	assert.Len(t, repo.items, 2)
}

func TestMarkAsRead_OnlyOwner(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, nil)
	ctx := context.Background()
	owner := uuid.New()

	n := &entity.Notification{UserID: owner, Title: "hello"}
	require.NoError(t, svc.Notify(ctx, n))

	err := svc.MarkAsRead(ctx, uuid.New(), n.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))

	require.NoError(t, svc.MarkAsRead(ctx, owner, n.ID))
	count, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestList_Paginates(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, nil)
	ctx := context.Background()
	owner := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Notify(ctx, &entity.Notification{UserID: owner, Title: "n"}))
	}
	require.NoError(t, svc.Notify(ctx, &entity.Notification{UserID: uuid.New(), Title: "other"}))

	page, limit := 2, 2
	result, err := svc.List(ctx, owner, commonDto.PageQuery{Page: &page, Limit: &limit})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, int64(5), result.Meta.TotalItems)
	assert.Equal(t, 3, result.Meta.TotalPages)
	assert.Equal(t, 2, result.Meta.CurrentPage)

	require.NoError(t, svc.MarkAllAsRead(ctx, owner))
	count, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, count)
}
