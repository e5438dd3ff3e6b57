package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"taskmanager/internal/feature/users/domain/entity"
)

// MaxAvatarBytes is the largest accepted upload.
const MaxAvatarBytes = 1_000_000

var avatarExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)

// avatarUsecase validates, normalizes and stores profile images.
type avatarUsecase struct {
	users     UserRepository
	processor AvatarProcessor
	moderator ImageModerator
}

// NewAvatarUsecase creates an avatarUsecase. moderator may be nil to skip content checks.
func NewAvatarUsecase(users UserRepository, processor AvatarProcessor, moderator ImageModerator) *avatarUsecase {
	return &avatarUsecase{users: users, processor: processor, moderator: moderator}
}

// UploadAvatar stores a 250x250 PNG rendition of the uploaded image.
func (u *avatarUsecase) UploadAvatar(ctx context.Context, user *entity.User, filename string, data []byte) error {
	if len(data) > MaxAvatarBytes {
		return invalidAvatar("File too large")
	}
	if !avatarExt.MatchString(filename) {
		return invalidAvatar("Please upload an image")
	}

	out, err := u.processor.Process(data)
	if err != nil {
		slog.Warn("avatar processing failed", "error", err, "user_id", user.ID)
		return invalidAvatar("Unable to process image")
	}

	if u.moderator != nil {
		ok, err := u.moderator.Moderate(ctx, out)
		if err != nil {
			return fmt.Errorf("moderate avatar: %w", err)
		}
		if !ok {
			return invalidAvatar("Image rejected by content moderation")
		}
	}

	return u.users.SaveAvatar(ctx, user.ID, out)
}

// DeleteAvatar clears the user's avatar.
func (u *avatarUsecase) DeleteAvatar(ctx context.Context, user *entity.User) error {
	return u.users.DeleteAvatar(ctx, user.ID)
}

// GetAvatar returns the stored PNG for userID.
func (u *avatarUsecase) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	return u.users.FindAvatar(ctx, userID)
}
