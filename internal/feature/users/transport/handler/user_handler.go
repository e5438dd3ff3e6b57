// Package handler provides the HTTP handlers for the users feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/api"
	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/transport/http/dto"
	"taskmanager/internal/feature/users/usecase"
	jwtmw "taskmanager/internal/platform/jwt"
)

// AccountUsecase defines the account operations the handler needs.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AccountUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput, meta entity.ClientMeta) (*entity.User, string, error)
	Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.User, string, error)
	Logout(ctx context.Context, session *entity.Session) error
	LogoutAll(ctx context.Context, user *entity.User) error
	UpdateProfile(ctx context.Context, user *entity.User, patch entity.UserPatch) (*entity.User, error)
	DeleteAccount(ctx context.Context, user *entity.User) error
}

// UserHandler handles account and profile requests.
type UserHandler struct {
	accounts AccountUsecase
}

func NewUserHandler(accounts AccountUsecase) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func clientMeta(c *gin.Context) entity.ClientMeta {
	return entity.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

// Register handles POST /users.
// - 400 on a malformed body, a validation failure or a taken email
// - 201 with the user and a fresh token on success
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.BindMessage(err, "name, email and password are required")})
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			slog.Warn("register rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			slog.Warn("register rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email already exists"})
		default:
			slog.ErrorContext(c.Request.Context(), "register failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		}
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthResponse{User: dto.FromUser(user), Token: token})
}

// Login handles POST /users/login. Every failure is a 400 with the same message
// so the response does not reveal whether the email exists.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidCredentials.Error()})
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		} else {
			slog.ErrorContext(c.Request.Context(), "login failed", "error", err, "remote_addr", c.ClientIP())
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: usecase.ErrInvalidCredentials.Error()})
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthResponse{User: dto.FromUser(user), Token: token})
}

// Logout handles POST /users/logout by revoking the presented token's session.
func (h *UserHandler) Logout(c *gin.Context) {
	session, ok := jwtmw.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), session); err != nil {
		slog.ErrorContext(c.Request.Context(), "logout failed", "error", err, "session_id", session.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out"})
}

// LogoutAll handles POST /users/logoutAll.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}
	if err := h.accounts.LogoutAll(c.Request.Context(), user); err != nil {
		slog.ErrorContext(c.Request.Context(), "logout all failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out of all sessions"})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(user))
}

// UpdateMe handles PATCH /users/me. Keys outside dto.UpdatableUserFields are rejected with "Invalid Updates".
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}

	var req dto.UpdateUserReq
	if err := api.DecodePatch(c.Request.Body, dto.UpdatableUserFields, &req); err != nil {
		slog.Warn("profile update rejected", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, api.ErrUnknownField) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgInvalidUpdates})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	updated, err := h.accounts.UpdateProfile(c.Request.Context(), user, req.ToPatch())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email already exists"})
		default:
			slog.ErrorContext(c.Request.Context(), "profile update failed", "error", err, "user_id", user.ID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		}
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(updated))
}

// DeleteMe handles DELETE /users/me and returns the removed user.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}
	if err := h.accounts.DeleteAccount(c.Request.Context(), user); err != nil {
		slog.ErrorContext(c.Request.Context(), "account deletion failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(user))
}
