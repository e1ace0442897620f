package handler

import (
	"net/http"

	"anoa.com/placementportal/internal/modules/support/dto"
	support "anoa.com/placementportal/internal/modules/support/service"
	"anoa.com/placementportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type SupportHandler struct {
	service support.SupportService
}

func NewSupportHandler(service support.SupportService) *SupportHandler {
	return &SupportHandler{service: service}
}

func (h *SupportHandler) Create(c *gin.Context) {
	var input dto.CreateSupportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *SupportHandler) List(c *gin.Context) {
	var filter dto.SupportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	messages, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *SupportHandler) UpdateStatus(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateSupportStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *SupportHandler) Respond(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.RespondSupportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.Respond(c.Request.Context(), id, input.Response)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
