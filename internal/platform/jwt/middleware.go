// Package jwtmw issues and verifies bearer tokens and guards routes that need an authenticated user.
package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/api"
	"taskmanager/internal/feature/users/domain/entity"
)

// Context keys set by AuthRequired.
const (
	ContextUser    = "user"
	ContextSession = "session"
)

// Authenticator resolves a raw bearer token to its user and session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, *entity.Session, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		user, session, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			slog.Warn("authentication failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

// CurrentSession returns the session stored by AuthRequired.
func CurrentSession(c *gin.Context) (*entity.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*entity.Session)
	return s, ok && s != nil
}
