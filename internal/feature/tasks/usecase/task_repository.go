package usecase

import (
	"context"

	"taskmanager/internal/feature/tasks/domain/entity"
)

// TaskRepository abstracts the persistence layer for tasks.
// Every lookup is scoped to an owner; another owner's task reads as ErrTaskNotFound.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error

	// List returns the owner's tasks matching filter, ordered by filter.SortBy with ID as a tie-breaker.
	List(ctx context.Context, ownerID string, filter entity.ListFilter) ([]entity.Task, error)

	FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error)

	// Update overwrites description, completed and updated_at.
	Update(ctx context.Context, task *entity.Task) error

	Delete(ctx context.Context, ownerID, id string) error

	// DeleteByOwner removes every task of the owner and returns how many were removed.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
