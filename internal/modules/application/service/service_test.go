package service

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/application/dto"
	"anoa.com/placementportal/internal/modules/application/repository"
	jobRepo "anoa.com/placementportal/internal/modules/job/repository"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"gorm.io/gorm"
)

type fakeApplicationRepo struct {
	mu           sync.Mutex
	applications map[uuid.UUID]*entity.Application
	jobs         *fakeJobs
	lastQuery    repository.ApplicationQuery
}

func (r *fakeApplicationRepo) Create(_ context.Context, a *entity.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.applications {
		if existing.JobID == a.JobID && existing.StudentID == a.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	r.applications[a.ID] = a
	return nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	copied.Job = r.jobs.jobs[a.JobID]
	return &copied, nil
}

func (r *fakeApplicationRepo) Exists(_ context.Context, jobID, studentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.applications {
		if a.JobID == jobID && a.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) FindAll(_ context.Context, q repository.ApplicationQuery, offset, limit int) ([]*entity.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q
	var out []*entity.Application
	for _, a := range r.applications {
		if q.StudentID != nil && a.StudentID != *q.StudentID {
			continue
		}
		if q.JobID != nil && a.JobID != *q.JobID {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) FindAllForExport(context.Context) ([]*entity.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Application
	for _, a := range r.applications {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeApplicationRepo) CountByResumeURL(_ context.Context, url string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.applications {
		if a.ResumeURL == url {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type fakeJobs struct {
	jobRepo.JobRepository
	jobs map[uuid.UUID]*entity.Job
}

func (r *fakeJobs) FindByID(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	if j, ok := r.jobs[id]; ok {
		return j, nil
	}
	return nil, gorm.ErrRecordNotFound
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

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*entity.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, notification *entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

type fakeThrottle struct {
	locked   map[string]bool
	released int
}

func (t *fakeThrottle) Acquire(_ context.Context, subject, action string, _ time.Duration) error {
	if t.locked[action+subject] {
		return &ratelimiter.RateLimitError{Message: "too many requests"}
	}
	t.locked[action+subject] = true
	return nil
}

func (t *fakeThrottle) Release(_ context.Context, subject, action string) error {
	delete(t.locked, action+subject)
	t.released++
	return nil
}

type fixture struct {
	svc      ApplicationService
	repo     *fakeApplicationRepo
	notifier *fakeNotifier
	throttle *fakeThrottle
	job      *entity.Job
	student  commonDto.Actor
	company  commonDto.Actor
}

func newFixture() *fixture {
	companyID := uuid.New()
	studentID := uuid.New()
	cgpa := 8.1

	job := &entity.Job{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     "Backend Engineer",
		Deadline:  time.Now().Add(24 * time.Hour),
		IsActive:  true,
	}
	jobs := &fakeJobs{jobs: map[uuid.UUID]*entity.Job{job.ID: job}}
	users := &fakeUsers{users: map[uuid.UUID]*entity.User{
		studentID: {
			ID:             studentID,
			FullName:       "Asha Rao",
			Role:           entity.RoleStudent,
			StudentProfile: &entity.StudentProfile{UserID: studentID, Branch: "CSE", Year: 4, CGPA: &cgpa},
		},
	}}
	repo := &fakeApplicationRepo{applications: make(map[uuid.UUID]*entity.Application), jobs: jobs}
	notifier := &fakeNotifier{}
	throttle := &fakeThrottle{locked: make(map[string]bool)}

	return &fixture{
		svc:      NewApplicationService(repo, jobs, users, notifier, throttle, time.Second),
		repo:     repo,
		notifier: notifier,
		throttle: throttle,
		job:      job,
		student:  commonDto.Actor{UserID: studentID, Role: entity.RoleStudent},
		company:  commonDto.Actor{UserID: companyID, Role: entity.RoleCompany},
	}
}

func (f *fixture) input() dto.ApplyInput {
	return dto.ApplyInput{JobID: f.job.ID.String(), ResumeURL: "https://cdn.example.com/cv.pdf", CoverLetter: "  hello  "}
}

func TestApply_Success(t *testing.T) {
	f := newFixture()

	application, err := f.svc.Apply(context.Background(), f.student.UserID, f.input())
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationPending, application.Status)
	require.NotNil(t, application.CoverLetter)
	assert.Equal(t, "hello", *application.CoverLetter)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.company.UserID, f.notifier.sent[0].UserID)
	assert.Equal(t, entity.NotificationNewApplication, f.notifier.sent[0].Type)
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, input *dto.ApplyInput)
		status int
	}{
		{"unknown job", func(_ *fixture, in *dto.ApplyInput) { in.JobID = uuid.NewString() }, http.StatusBadRequest},
		{"deadline passed", func(f *fixture, _ *dto.ApplyInput) { f.job.Deadline = time.Now().Add(-time.Minute) }, http.StatusBadRequest},
		{"inactive job", func(f *fixture, _ *dto.ApplyInput) { f.job.IsActive = false }, http.StatusBadRequest},
		{"branch not eligible", func(f *fixture, _ *dto.ApplyInput) { f.job.EligibleBranches = []string{"ECE"} }, http.StatusBadRequest},
		{"cgpa too low", func(f *fixture, _ *dto.ApplyInput) { floor := 9.0; f.job.MinCGPA = &floor }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			input := f.input()
			tt.mutate(f, &input)

			_, err := f.svc.Apply(context.Background(), f.student.UserID, input)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperror.MapErrorToStatus(err))
			assert.Equal(t, 1, f.throttle.released)
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestApply_EligibleBranchIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	f.job.EligibleBranches = []string{"cse", "ECE"}

	_, err := f.svc.Apply(context.Background(), f.student.UserID, f.input())
	assert.NoError(t, err)
}

func TestApply_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, f.student.UserID, f.input())
	require.NoError(t, err)
	f.throttle.locked = make(map[string]bool)

	_, err = f.svc.Apply(ctx, f.student.UserID, f.input())
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestApply_Throttled(t *testing.T) {
	f := newFixture()
	f.throttle.locked["apply"+f.student.UserID.String()] = true

	_, err := f.svc.Apply(context.Background(), f.student.UserID, f.input())
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
	assert.Empty(t, f.repo.applications)
}

func TestGetByID_Visibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	application, err := f.svc.Apply(ctx, f.student.UserID, f.input())
	require.NoError(t, err)

	tests := []struct {
		name   string
		actor  commonDto.Actor
		status int
	}{
		{"owner student", f.student, http.StatusOK},
		{"owning company", f.company, http.StatusOK},
		{"admin", commonDto.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}, http.StatusOK},
		{"other student", commonDto.Actor{UserID: uuid.New(), Role: entity.RoleStudent}, http.StatusNotFound},
		{"other company", commonDto.Actor{UserID: uuid.New(), Role: entity.RoleCompany}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GetByID(ctx, tt.actor, application.ID)
			if tt.status == http.StatusOK {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.status, apperror.MapErrorToStatus(err))
		})
	}
}

func TestUpdateStatus_NotifiesStudent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	application, err := f.svc.Apply(ctx, f.student.UserID, f.input())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, f.company, application.ID, entity.ApplicationShortlisted)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationShortlisted, updated.Status)

	require.Len(t, f.notifier.sent, 2)
	last := f.notifier.sent[1]
	assert.Equal(t, f.student.UserID, last.UserID)
	assert.Equal(t, entity.NotificationApplicationStatus, last.Type)

	// same status again is a no-op
	_, err = f.svc.UpdateStatus(ctx, f.company, application.ID, entity.ApplicationShortlisted)
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent, 2)
}

func TestUpdateStatus_ForeignCompany(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	application, err := f.svc.Apply(ctx, f.student.UserID, f.input())
	require.NoError(t, err)

	other := commonDto.Actor{UserID: uuid.New(), Role: entity.RoleCompany}
	_, err = f.svc.UpdateStatus(ctx, other, application.ID, entity.ApplicationRejected)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
	assert.Equal(t, entity.ApplicationPending, f.repo.applications[application.ID].Status)
}

func TestListForJob_Ownership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	page, err := f.svc.ListForJob(ctx, f.company, f.job.ID, dto.ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	require.NotNil(t, f.repo.lastQuery.JobID)
	assert.Equal(t, f.job.ID, *f.repo.lastQuery.JobID)

	other := commonDto.Actor{UserID: uuid.New(), Role: entity.RoleCompany}
	_, err = f.svc.ListForJob(ctx, other, f.job.ID, dto.ApplicationFilter{})
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	_, err = f.svc.ListForJob(ctx, f.company, uuid.New(), dto.ApplicationFilter{})
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestExport_WritesWorkbook(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.Apply(ctx, f.student.UserID, f.input())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Equal(t, 2, file.Sheets[0].MaxRow)
}

func TestExportRow(t *testing.T) {
	cgpa := 7.456
	a := &entity.Application{
		ID:     uuid.New(),
		Status: entity.ApplicationSelected,
		Student: &entity.User{
			FullName:       "Asha Rao",
			Email:          "asha@college.edu",
			StudentProfile: &entity.StudentProfile{Branch: "CSE", Year: 3, CGPA: &cgpa},
		},
		Job: &entity.Job{Title: "SRE", Package: 10, Company: &entity.CompanyProfile{CompanyName: "Acme"}},
	}

	row := exportRow(a)
	require.Len(t, row, len(exportHeaders))
	assert.Equal(t, "Asha Rao", row[1])
	assert.Equal(t, "3", row[4])
	assert.Equal(t, "7.46", row[5])
	assert.Equal(t, "Acme", row[7])
	assert.Equal(t, "selected", row[9])

	// missing associations leave blanks
	bare := exportRow(&entity.Application{ID: uuid.New()})
	assert.Equal(t, "", bare[1])
	assert.Equal(t, "", bare[7])
}
