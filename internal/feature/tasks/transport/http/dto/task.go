// Package dto defines data transfer objects for the tasks feature's HTTP transport layer.
package dto

import (
	"time"

	"taskmanager/internal/feature/tasks/domain/entity"
)

// CreateTaskReq is the body of POST /tasks.
type CreateTaskReq struct {
	Description string `json:"description" binding:"required"`
	Completed   bool   `json:"completed"`
}

// UpdatableTaskFields lists the keys PATCH /tasks/:id accepts.
var UpdatableTaskFields = []string{"description", "completed"}

// UpdateTaskReq is the body of PATCH /tasks/:id. Absent keys stay nil.
type UpdateTaskReq struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (r UpdateTaskReq) ToPatch() entity.TaskPatch {
	return entity.TaskPatch{Description: r.Description, Completed: r.Completed}
}

// ListTasksParams are the query parameters of GET /tasks.
type ListTasksParams struct {
	Completed *bool   `form:"completed"`
	Limit     *int    `form:"limit"`
	Skip      *int    `form:"skip"`
	SortBy    *string `form:"sortBy"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromTask(t *entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTasks(tasks []entity.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, FromTask(&tasks[i]))
	}
	return out
}
