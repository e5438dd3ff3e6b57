package di

import (
	"context"

	"taskmanager/internal/feature/users/adapters/vision"
	"taskmanager/internal/feature/users/usecase"
)

// NewModerator returns the Cloud Vision moderator when enabled, or nil.
// The returned close func is always safe to call.
func NewModerator(ctx context.Context, enabled bool) (usecase.ImageModerator, func() error, error) {
	if !enabled {
		return nil, func() error { return nil }, nil
	}
	m, err := vision.NewSafeSearchModerator(ctx)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Close, nil
}
