package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/students/me/resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestResumeUpload(t *testing.T) {
	const maxBytes = 64
	pdf := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("a"), 20)...)

	r := gin.New()
	r.POST("/students/me/resume", ResumeUpload(maxBytes), func(c *gin.Context) {
		_, ok := c.Get(ContextResume)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name        string
		field       string
		fileName    string
		contentType string
		content     []byte
		status      int
	}{
		{"valid pdf", ResumeField, "cv.pdf", "application/pdf", pdf, http.StatusOK},
		{"upper-case extension", ResumeField, "CV.PDF", "application/pdf", pdf, http.StatusOK},
		{"wrong content type", ResumeField, "cv.pdf", "image/png", pdf, http.StatusBadRequest},
		{"wrong extension", ResumeField, "cv.docx", "application/pdf", pdf, http.StatusBadRequest},
		{"not a pdf body", ResumeField, "cv.pdf", "application/pdf", []byte("plain text pretending"), http.StatusBadRequest},
		{"too large", ResumeField, "cv.pdf", "application/pdf", append([]byte("%PDF-"), bytes.Repeat([]byte("a"), maxBytes)...), http.StatusBadRequest},
		{"missing part", "", "", "", nil, http.StatusBadRequest},
		{"wrong field name", "file", "cv.pdf", "application/pdf", pdf, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, tt.field, tt.fileName, tt.contentType, tt.content))
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadRequest {
				assert.Contains(t, w.Body.String(), `"field":"resume"`)
			}
		})
	}
}
