package handler

import (
	"context"
	"errors"
	"net/http"

	"anoa.com/placementportal/internal/scheduler"
	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type TaskRunner interface {
	Names() []string
	RunByName(ctx context.Context, name string) error
}

type TaskHandler struct {
	runner TaskRunner
}

func NewTaskHandler(runner TaskRunner) *TaskHandler {
	return &TaskHandler{runner: runner}
}

func (h *TaskHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.runner.Names()})
}

// Run executes a maintenance task immediately, outside its schedule.
func (h *TaskHandler) Run(c *gin.Context) {
	name := c.Param("name")
	if err := h.runner.RunByName(c.Request.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrTaskNotFound) {
			response.ResponseError(c, apperror.NotFound("task"))
			return
		}
		response.ResponseError(c, apperror.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": name, "status": "completed"})
}
