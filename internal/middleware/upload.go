package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ResumeField      = "resume"
	ContextResume    = "resume_file"
	multipartReserve = 1 << 20
)

var pdfMagic = []byte("%PDF-")

// ResumeUpload accepts a single PDF part named "resume" of at most maxBytes.
// The validated *multipart.FileHeader is stored under ContextResume.
func ResumeUpload(maxBytes int64) gin.HandlerFunc {
	tooLarge := apperror.Validation(apperror.Issue{
		Field:   ResumeField,
		Message: fmt.Sprintf("%s must be at most %d bytes", ResumeField, maxBytes),
	})

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartReserve)

		header, err := c.FormFile(ResumeField)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				response.ResponseError(c, tooLarge)
				return
			}
			response.ResponseError(c, apperror.Validation(apperror.Issue{Field: ResumeField, Message: ResumeField + " file is required"}))
			return
		}

		if header.Size > maxBytes {
			response.ResponseError(c, tooLarge)
			return
		}

		contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
		if !strings.HasPrefix(contentType, "application/pdf") || !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			response.ResponseError(c, apperror.Validation(apperror.Issue{Field: ResumeField, Message: ResumeField + " must be a PDF document"}))
			return
		}

		file, err := header.Open()
		if err != nil {
			response.ResponseError(c, apperror.Internal(err))
			return
		}
		head := make([]byte, len(pdfMagic))
		_, err = io.ReadFull(file, head)
		file.Close()
		if err != nil || !bytes.Equal(head, pdfMagic) {
			response.ResponseError(c, apperror.Validation(apperror.Issue{Field: ResumeField, Message: ResumeField + " is not a valid PDF file"}))
			return
		}

		c.Set(ContextResume, header)
		c.Next()
	}
}
