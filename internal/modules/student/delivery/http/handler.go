package handler

import (
	"mime/multipart"
	"net/http"

	"anoa.com/placementportal/internal/middleware"
	"anoa.com/placementportal/internal/modules/student/dto"
	student "anoa.com/placementportal/internal/modules/student/service"
	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	service student.StudentService
}

func NewStudentHandler(service student.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) UpdateMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.UpdateMe(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadResume expects middleware.ResumeUpload to have validated the file.
func (h *StudentHandler) UploadResume(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	value, _ := c.Get(middleware.ContextResume)
	header, ok := value.(*multipart.FileHeader)
	if !ok {
		response.ResponseError(c, apperror.BadRequest("resume file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.ResponseError(c, apperror.Internal(err))
		return
	}
	defer file.Close()

	profile, err := h.service.UploadResume(c.Request.Context(), userID, dto.ResumeFile{
		Reader:   file,
		FileName: header.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) List(c *gin.Context) {
	var filter dto.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, err)
		return
	}

	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetByID(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
