package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	l := NewIPRateLimiter(2)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	fixed = fixed.Add(time.Minute)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_Evicts(t *testing.T) {
	l := NewIPRateLimiter(1)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Allow("10.0.0.1")
	fixed = fixed.Add(time.Hour)
	l.evict(fixed)
	assert.Empty(t, l.visitors)
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1)
	r := gin.New()
	r.POST("/auth/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestIPRateLimiter_ForwardedFor(t *testing.T) {
	tests := []struct {
		name     string
		trusted  []string
		statuses []int
	}{
		{"spoofed header from untrusted peer", nil, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}},
		{"header from trusted proxy", []string{"192.0.2.1"}, []int{http.StatusOK, http.StatusOK, http.StatusOK}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPRateLimiter(1)
			r := gin.New()
			require.NoError(t, r.SetTrustedProxies(tt.trusted))
			r.POST("/auth/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

			var got []int
			for i := range tt.statuses {
				req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
				req.RemoteAddr = "192.0.2.1:1234"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				got = append(got, w.Code)
			}
			assert.Equal(t, tt.statuses, got)
		})
	}
}
