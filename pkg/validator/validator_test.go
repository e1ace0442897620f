package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email     string     `json:"email" validate:"required,email"`
	ResumeURL string     `json:"resumeUrl" validate:"required,url,pdfurl"`
	Deadline  *time.Time `json:"deadline" validate:"omitempty,future"`
	Status    string     `json:"status" validate:"omitempty,oneof=pending closed"`
	Internal  string     `json:"-" validate:"omitempty,min=3"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Configure(v))
	return v
}

func TestIssues_ReportsEveryField(t *testing.T) {
	v := newValidator(t)
	past := time.Now().Add(-time.Hour)

	err := v.Struct(sample{
		Email:     "nope",
		ResumeURL: "https://cdn.example.com/cv.docx",
		Deadline:  &past,
		Status:    "archived",
	})
	require.Error(t, err)

	issues := Issues(err)
	fields := make(map[string]string, len(issues))
	for _, issue := range issues {
		fields[issue.Field] = issue.Message
	}

	assert.Equal(t, map[string]string{
		"email":     "email must be a valid email",
		"resumeUrl": "resumeUrl must point to a .pdf file",
		"deadline":  "deadline must be in the future",
		"status":    "status must be one of: pending closed",
	}, fields)
}

func TestPDFURL(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://cdn.example.com/cv.pdf", true},
		{"https://cdn.example.com/CV.PDF", true},
		{"https://cdn.example.com/cv.pdf.exe", false},
		{"https://cdn.example.com/cv", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := v.Struct(sample{Email: "a@b.co", ResumeURL: tt.url})
			assert.Equal(t, tt.valid, err == nil, "%v", err)
		})
	}
}

func TestFuture_AcceptsLaterTimes(t *testing.T) {
	v := newValidator(t)
	later := time.Now().Add(time.Hour)

	assert.NoError(t, v.Struct(sample{Email: "a@b.co", ResumeURL: "https://x.io/a.pdf", Deadline: &later}))
}

func TestIssues_NonValidationError(t *testing.T) {
	assert.Nil(t, Issues(assert.AnError))
}
