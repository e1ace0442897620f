package response

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/validator"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// ErrorBody is the shape of every error the API returns.
type ErrorBody struct {
	Message string           `json:"message"`
	Issues  []apperror.Issue `json:"issues,omitempty"`
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, apperror.Unauthorized("authorization required")
	}

	idStr, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("authorization required")
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("authorization required")
	}

	return userID, nil
}

// GetActor bundles the authenticated user ID and role.
func GetActor(c *gin.Context) (dto.Actor, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return dto.Actor{}, err
	}
	return dto.Actor{UserID: userID, Role: GetRole(c)}, nil
}

// GetRole retrieves the authenticated user's role from the context.
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// ParamUUID parses a path parameter as a uuid.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(apperror.Issue{Field: name, Message: name + " must be a valid id"})
	}
	return id, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code, body := Resolve(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	c.AbortWithStatusJSON(code, body)
}

// Resolve maps any error to a status code and a client-safe body.
func Resolve(err error) (int, ErrorBody) {
	var validationErrors playground.ValidationErrors
	if errors.As(err, &validationErrors) {
		return http.StatusBadRequest, ErrorBody{
			Message: "validation failed",
			Issues:  validator.Issues(validationErrors),
		}
	}

	if isMalformedBody(err) {
		return http.StatusBadRequest, ErrorBody{Message: "malformed request body"}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return http.StatusBadRequest, ErrorBody{Message: "invalid number: " + numErr.Num}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, ErrorBody{Message: apperror.ErrNotFound.Error()}
	}

	code := apperror.MapErrorToStatus(err)
	if code == http.StatusInternalServerError {
		return code, ErrorBody{Message: apperror.ErrInternal.Error()}
	}

	body := ErrorBody{Message: err.Error()}
	if appErr := apperror.As(err); appErr != nil {
		body.Message = appErr.Error()
		body.Issues = appErr.Issues
	}
	return code, body
}

func isMalformedBody(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

// Recovery answers panics with the generic 500 body.
func Recovery(c *gin.Context, recovered any) {
	log.Printf("[Panic] %s %s: %v", c.Request.Method, c.FullPath(), recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Message: apperror.ErrInternal.Error()})
}
