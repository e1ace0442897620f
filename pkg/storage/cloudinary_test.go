package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		publicID     string
		resourceType string
	}{
		{"raw with version", "https://res.cloudinary.com/demo/raw/upload/v1712/resumes/17-cv.pdf", "resumes/17-cv.pdf", "raw"},
		{"image strips extension", "https://res.cloudinary.com/demo/image/upload/v1/folder/sample.jpg", "folder/sample", "image"},
		{"no version", "https://res.cloudinary.com/demo/raw/upload/cv.pdf", "cv.pdf", "raw"},
		{"not cloudinary", "https://example.com/files/cv.pdf", "", ""},
		{"garbage", "::::", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicID, resourceType := ExtractPublicID(tt.url)
			assert.Equal(t, tt.publicID, publicID)
			assert.Equal(t, tt.resourceType, resourceType)
		})
	}
}

func TestTimestampedName(t *testing.T) {
	now := time.Unix(0, 1700000000123456789)

	name := TimestampedName(now, "../My Resume (final).pdf")
	assert.Equal(t, "1700000000123456789-My_Resume_final_.pdf", name)
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	assert.NotEqual(t, name, TimestampedName(now.Add(time.Nanosecond), "../My Resume (final).pdf"))
}
