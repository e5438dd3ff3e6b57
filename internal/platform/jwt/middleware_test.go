package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taskmanager/internal/feature/users/domain/entity"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, token string) (*entity.User, *entity.Session, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, nil, errors.New("not configured")
}

// TestAuthRequired_MissingBearerToken verifies 401 when the Bearer prefix is absent or malformed.
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	called := false
	auth := &mockAuthenticator{AuthenticateFunc: func(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
		called = true
		return nil, nil, nil
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			AuthRequired(auth)(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"please authenticate"}`, w.Body.String())
			assert.True(t, c.IsAborted())
		})
	}
	assert.False(t, called, "authenticator must not be called without a bearer token")
}

// TestAuthRequired_AuthenticatorRejects verifies any authenticator error maps to 401.
func TestAuthRequired_AuthenticatorRejects(t *testing.T) {
	auth := &mockAuthenticator{AuthenticateFunc: func(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
		return nil, nil, ErrInvalidToken
	}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer revoked")

	AuthRequired(auth)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

// TestAuthRequired_ValidToken verifies the user and session are placed on the context.
func TestAuthRequired_ValidToken(t *testing.T) {
	user := &entity.User{ID: "user-1", Email: "a@example.com"}
	session := &entity.Session{ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}

	var gotToken string
	auth := &mockAuthenticator{AuthenticateFunc: func(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
		gotToken = token
		return user, session, nil
	}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer good-token")

	AuthRequired(auth)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "good-token", gotToken)

	gotUser, ok := CurrentUser(c)
	assert.True(t, ok)
	assert.Equal(t, user, gotUser)

	gotSession, ok := CurrentSession(c)
	assert.True(t, ok)
	assert.Equal(t, session, gotSession)
}

func TestCurrentUser_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUser(c)
	assert.False(t, ok)
	_, ok = CurrentSession(c)
	assert.False(t, ok)
}
