package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bengaluru", "bengaluru"},
		{"  New Delhi ", "new delhi"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LocationKey(tt.in))
	}
}

func TestJobIsOpen(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&Job{IsActive: true, Deadline: now.Add(time.Hour)}).IsOpen(now))
	assert.False(t, (&Job{IsActive: true, Deadline: now}).IsOpen(now))
	assert.False(t, (&Job{IsActive: false, Deadline: now.Add(time.Hour)}).IsOpen(now))
}
