package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/api"
	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/usecase"
	jwtmw "taskmanager/internal/platform/jwt"
)

// AvatarFormField is the multipart field that carries the upload.
const AvatarFormField = "avatar"

// multipartOverhead is the room left for boundaries and part headers on top
// of the avatar size limit.
const multipartOverhead = 64 << 10

// MaxAvatarRequestBytes caps the whole upload request body.
const MaxAvatarRequestBytes = usecase.MaxAvatarBytes + multipartOverhead

// AvatarUsecase defines the avatar operations the handler needs.
type AvatarUsecase interface {
	UploadAvatar(ctx context.Context, user *entity.User, filename string, data []byte) error
	DeleteAvatar(ctx context.Context, user *entity.User) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

// AvatarHandler handles avatar upload, removal and download.
type AvatarHandler struct {
	avatars AvatarUsecase
}

func NewAvatarHandler(avatars AvatarUsecase) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Upload handles POST /users/me/avatar.
//
// Content-Type: multipart/form-data
// Field: avatar (.jpg, .jpeg or .png, at most 1MB)
func (h *AvatarHandler) Upload(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAvatarRequestBytes)
	file, err := c.FormFile(AvatarFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("avatar request too large", "limit", tooLarge.Limit, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "File too large"})
			return
		}
		slog.Warn("avatar file missing", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Please upload an image"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to open avatar upload", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unable to read upload"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close avatar upload", "error", err)
		}
	}()

	// One byte past the limit is enough for the usecase to reject oversized files.
	data, err := io.ReadAll(io.LimitReader(f, usecase.MaxAvatarBytes+1))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to read avatar upload", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unable to read upload"})
		return
	}

	if err := h.avatars.UploadAvatar(c.Request.Context(), user, file.Filename, data); err != nil {
		if errors.Is(err, usecase.ErrInvalidAvatar) {
			slog.Warn("avatar rejected", "error", err, "user_id", user.ID, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.ErrorContext(c.Request.Context(), "avatar upload failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "avatar uploaded"})
}

// Delete handles DELETE /users/me/avatar.
func (h *AvatarHandler) Delete(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return
	}
	if err := h.avatars.DeleteAvatar(c.Request.Context(), user); err != nil {
		slog.ErrorContext(c.Request.Context(), "avatar delete failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "avatar deleted"})
}

// Get handles GET /users/:id/avatar and serves the stored PNG.
func (h *AvatarHandler) Get(c *gin.Context) {
	data, err := h.avatars.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrAvatarNotFound) || errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "avatar not found"})
			return
		}
		slog.ErrorContext(c.Request.Context(), "avatar lookup failed", "error", err, "user_id", c.Param("id"))
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "avatar not found"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
