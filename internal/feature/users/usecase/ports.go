package usecase

import (
	"context"
	"time"

	"taskmanager/internal/feature/users/domain/entity"
	jwtmw "taskmanager/internal/platform/jwt"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. Returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound when no user has the ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// Update overwrites the profile fields of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user and its avatar.
	Delete(ctx context.Context, id string) error

	// SaveAvatar stores the PNG avatar and marks the user as having one.
	SaveAvatar(ctx context.Context, userID string, png []byte) error

	// DeleteAvatar clears the avatar. Deleting a missing avatar is not an error.
	DeleteAvatar(ctx context.Context, userID string) error

	// FindAvatar returns ErrAvatarNotFound when the user has none.
	FindAvatar(ctx context.Context, userID string) ([]byte, error)
}

// TaskCleaner removes a user's tasks when the account is deleted.
type TaskCleaner interface {
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenGenerator signs a bearer token bound to a session.
type TokenGenerator interface {
	GenerateToken(userID, sessionID string, expiresAt time.Time) (string, error)
}

// TokenParser verifies a bearer token and extracts its claims.
type TokenParser interface {
	ParseToken(token string) (*jwtmw.Claims, error)
}

// Notifier delivers account lifecycle emails. Implementations may deliver asynchronously.
type Notifier interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancelation(ctx context.Context, email, name string) error
}

// AvatarProcessor decodes an uploaded image and re-encodes it as the stored PNG.
type AvatarProcessor interface {
	Process(data []byte) ([]byte, error)
}

// ImageModerator rejects images that fail content checks. ok is false for rejected images.
type ImageModerator interface {
	Moderate(ctx context.Context, image []byte) (ok bool, err error)
}
