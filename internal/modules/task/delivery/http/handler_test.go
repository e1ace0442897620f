package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/placementportal/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRunner struct {
	ran []string
	err error
}

func (r *stubRunner) Names() []string { return []string{"refresh-token-cleanup", "job-expiry"} }

func (r *stubRunner) RunByName(_ context.Context, name string) error {
	if name != "job-expiry" && name != "refresh-token-cleanup" {
		return fmt.Errorf("%w: %s", scheduler.ErrTaskNotFound, name)
	}
	r.ran = append(r.ran, name)
	return r.err
}

func newRouter(runner *stubRunner) *gin.Engine {
	h := NewTaskHandler(runner)
	r := gin.New()
	r.GET("/admin/tasks", h.List)
	r.POST("/admin/tasks/:name/run", h.Run)
	return r
}

func TestList(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&stubRunner{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tasks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":["refresh-token-cleanup","job-expiry"]}`, w.Body.String())
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		task   string
		err    error
		status int
		ran    int
	}{
		{"runs task", "job-expiry", nil, http.StatusOK, 1},
		{"unknown task", "reindex", nil, http.StatusNotFound, 0},
		{"task failure hides cause", "refresh-token-cleanup", errors.New("db down"), http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{err: tt.err}
			w := httptest.NewRecorder()
			newRouter(runner).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/tasks/"+tt.task+"/run", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Len(t, runner.ran, tt.ran)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}
