package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskmanager/internal/feature/tasks/domain/entity"
)

const (
	// MaxListLimit caps the page size of List.
	MaxListLimit = 100

	maxDescriptionLength = 1000
)

// taskUsecase implements owner-scoped task CRUD.
type taskUsecase struct {
	repo TaskRepository
	now  func() time.Time
}

// NewTaskUsecase creates a taskUsecase.
func NewTaskUsecase(repo TaskRepository) *taskUsecase {
	return &taskUsecase{repo: repo, now: time.Now}
}

func validateDescription(desc string) error {
	if desc == "" {
		return invalid("description is required")
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return invalid(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return nil
}

// Create stores a new task for ownerID.
func (u *taskUsecase) Create(ctx context.Context, ownerID, description string, completed bool) (*entity.Task, error) {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := u.now()
	task := &entity.Task{
		ID:          uuid.NewString(),
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns a page of the owner's tasks. The filter is normalized first:
// the limit is capped at MaxListLimit and an unset sort means createdAt ascending.
func (u *taskUsecase) List(ctx context.Context, ownerID string, filter entity.ListFilter) ([]entity.Task, error) {
	filter = normalizeFilter(filter)

	tasks, err := u.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, nil
}

func normalizeFilter(f entity.ListFilter) entity.ListFilter {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Skip < 0 || f.Limit == 0 {
		f.Skip = 0
	}
	if f.Skip > f.MaxSkip() {
		f.Skip = f.MaxSkip()
	}
	if !f.SortBy.Valid() {
		f.SortBy = entity.SortCreatedAt
		f.Desc = false
	}
	return f
}

// Get returns one of the owner's tasks.
func (u *taskUsecase) Get(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	return u.repo.FindByID(ctx, ownerID, id)
}

// Update applies a whitelisted patch to one of the owner's tasks.
func (u *taskUsecase) Update(ctx context.Context, ownerID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	task, err := u.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return task, nil
	}

	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
		if err := validateDescription(task.Description); err != nil {
			return nil, err
		}
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	task.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes one of the owner's tasks and returns it.
func (u *taskUsecase) Delete(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	task, err := u.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Delete(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteByOwner removes every task of ownerID.
func (u *taskUsecase) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	return u.repo.DeleteByOwner(ctx, ownerID)
}
