package middleware

import (
	"strings"

	"anoa.com/placementportal/pkg/apperror"
	"anoa.com/placementportal/pkg/response"
	"anoa.com/placementportal/pkg/token"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		// Fallback to query parameter "token" (browsers cannot set headers on websockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			response.ResponseError(c, apperror.Unauthorized("authorization required"))
			return
		}

		claims, err := m.tokens.VerifyAccess(tokenString)
		if err != nil {
			response.ResponseError(c, apperror.Unauthorized(err.Error()))
			return
		}

		c.Set(response.ContextUserID, claims.Subject)
		c.Set(response.ContextRole, claims.Role)
		c.Next()
	}
}

// Allowed reports whether role is in the allow list.
func Allowed(role string, allowed ...string) bool {
	if role == "" {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(response.ContextUserID); !exists {
			response.ResponseError(c, apperror.Unauthorized("authorization required"))
			return
		}

		if !Allowed(response.GetRole(c), roles...) {
			response.ResponseError(c, apperror.Forbidden("you do not have access to this resource"))
			return
		}

		c.Next()
	}
}
