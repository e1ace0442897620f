package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/placementportal/internal/modules/student/dto"
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/response"
	"anoa.com/placementportal/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
}

type stubStudentService struct {
	lastFilter dto.StudentFilter
}

func (s *stubStudentService) GetMe(context.Context, uuid.UUID) (*userDto.UserResponse, error) {
	return &userDto.UserResponse{}, nil
}

func (s *stubStudentService) UpdateMe(context.Context, uuid.UUID, dto.UpdateStudentInput) (*userDto.UserResponse, error) {
	return &userDto.UserResponse{}, nil
}

func (s *stubStudentService) UploadResume(context.Context, uuid.UUID, dto.ResumeFile) (*userDto.UserResponse, error) {
	return &userDto.UserResponse{}, nil
}

func (s *stubStudentService) List(_ context.Context, filter dto.StudentFilter) (*commonDto.Paginated[*userDto.UserResponse], error) {
	s.lastFilter = filter
	page, limit, _ := filter.Resolve()
	return commonDto.NewPaginated[*userDto.UserResponse](nil, page, limit, 0), nil
}

func (s *stubStudentService) GetByID(context.Context, uuid.UUID) (*userDto.UserResponse, error) {
	return &userDto.UserResponse{}, nil
}

func TestList_Pagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		field  string
	}{
		{"defaults", "", http.StatusOK, ""},
		{"explicit page", "?page=3&limit=100", http.StatusOK, ""},
		{"page zero", "?page=0", http.StatusBadRequest, "page"},
		{"limit too large", "?limit=1000", http.StatusBadRequest, "limit"},
		{"limit not a number", "?limit=ten", http.StatusBadRequest, ""},
		{"year out of range", "?year=9", http.StatusBadRequest, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStudentHandler(&stubStudentService{})
			r := gin.New()
			r.GET("/students", h.List)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students"+tt.query, nil))

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.field != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)
			}
		})
	}
}

func TestList_EmptyDataIsArray(t *testing.T) {
	r := gin.New()
	r.GET("/students", NewStudentHandler(&stubStudentService{}).List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/students", nil))
	assert.JSONEq(t, `{"data":[],"meta":{"currentPage":1,"totalPages":0,"totalItems":0,"limit":10}}`, w.Body.String())
}

func TestUpdateMe_ReportsEveryField(t *testing.T) {
	r := gin.New()
	r.PUT("/students/me", func(c *gin.Context) {
		c.Set(response.ContextUserID, uuid.NewString())
		c.Next()
	}, NewStudentHandler(&stubStudentService{}).UpdateMe)

	req := httptest.NewRequest(http.MethodPut, "/students/me", strings.NewReader(`{"year":7,"cgpa":11}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"year"`)
	assert.Contains(t, w.Body.String(), `"field":"cgpa"`)
}
