// Package handler provides the HTTP handlers for the tasks feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"taskmanager/internal/api"
	"taskmanager/internal/feature/tasks/domain/entity"
	"taskmanager/internal/feature/tasks/transport/http/dto"
	"taskmanager/internal/feature/tasks/usecase"
	jwtmw "taskmanager/internal/platform/jwt"
)

// TaskUsecase defines the task operations the handler needs.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type TaskUsecase interface {
	Create(ctx context.Context, ownerID, description string, completed bool) (*entity.Task, error)
	List(ctx context.Context, ownerID string, filter entity.ListFilter) ([]entity.Task, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Task, error)
	Update(ctx context.Context, ownerID, id string, patch entity.TaskPatch) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, id string) (*entity.Task, error)
}

// TaskHandler handles task CRUD for the authenticated user.
type TaskHandler struct {
	tasks TaskUsecase
}

func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ownerID returns the authenticated user's ID, writing a 401 when there is none.
func ownerID(c *gin.Context) (string, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: api.MsgPleaseAuthenticate})
		return "", false
	}
	return user.ID, true
}

// writeError maps usecase errors to responses. 5xx details are logged only.
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgInternal})
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create task validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.BindMessage(err, "description is required")})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), owner, req.Description, req.Completed)
	if err != nil {
		writeError(c, "create task", err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTask(task))
}

// List handles GET /tasks.
//
// Query: completed=true|false, limit=N, skip=P (page index), sortBy=field[:asc|desc]
func (h *TaskHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		slog.Warn("list tasks query rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), owner, filter)
	if err != nil {
		writeError(c, "list tasks", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTasks(tasks))
}

// bindListFilter reads the list query the way a generated OpenAPI server would (form style, exploded).
// A malformed completed or sortBy is an error; a malformed limit or skip is ignored.
func bindListFilter(c *gin.Context) (entity.ListFilter, error) {
	query := c.Request.URL.Query()
	var params dto.ListTasksParams

	if err := runtime.BindQueryParameter("form", true, false, "completed", query, &params.Completed); err != nil {
		return entity.ListFilter{}, errors.New("completed must be true or false")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		params.Limit = nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "skip", query, &params.Skip); err != nil {
		params.Skip = nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "sortBy", query, &params.SortBy); err != nil {
		return entity.ListFilter{}, errors.New("sortBy is invalid")
	}

	filter := entity.ListFilter{Completed: params.Completed}
	if params.Limit != nil && *params.Limit > 0 {
		filter.Limit = *params.Limit
	}
	if params.Skip != nil && *params.Skip > 0 {
		filter.Skip = *params.Skip
	}

	var sortBy string
	if params.SortBy != nil {
		sortBy = *params.SortBy
	}
	field, desc, err := entity.ParseSort(sortBy)
	if err != nil {
		return entity.ListFilter{}, err
	}
	filter.SortBy, filter.Desc = field, desc
	return filter, nil
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		writeError(c, "get task", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(task))
}

// Update handles PATCH /tasks/:id. Keys outside dto.UpdatableTaskFields are rejected with "Invalid Updates".
func (h *TaskHandler) Update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskReq
	if err := api.DecodePatch(c.Request.Body, dto.UpdatableTaskFields, &req); err != nil {
		slog.Warn("task update rejected", "error", err, "remote_addr", c.ClientIP())
		if errors.Is(err, api.ErrUnknownField) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgInvalidUpdates})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), owner, c.Param("id"), req.ToPatch())
	if err != nil {
		writeError(c, "update task", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(task))
}

// Delete handles DELETE /tasks/:id and returns the removed task.
func (h *TaskHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		writeError(c, "delete task", err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(task))
}
