// Package adapters provides repository implementations for the tasks feature.
package adapters

import (
	"time"

	"taskmanager/internal/feature/tasks/domain/entity"
)

// TaskModel is the GORM model for the tasks table.
type TaskModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Description string `gorm:"size:1000;not null"`
	Completed   bool   `gorm:"not null;default:false;index:idx_tasks_owner_completed,priority:2"`
	OwnerID     string `gorm:"size:36;not null;index:idx_tasks_owner_completed,priority:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaskModel) TableName() string {
	return "tasks"
}

func (m *TaskModel) ToEntity() entity.Task {
	return entity.Task{
		ID:          m.ID,
		Description: m.Description,
		Completed:   m.Completed,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func TaskModelFromEntity(t *entity.Task) *TaskModel {
	return &TaskModel{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Models lists the GORM models of the tasks feature for AutoMigrate.
func Models() []any {
	return []any{&TaskModel{}}
}

// sortColumns maps client sort fields to column names.
var sortColumns = map[entity.SortField]string{
	entity.SortCreatedAt:   "created_at",
	entity.SortUpdatedAt:   "updated_at",
	entity.SortDescription: "description",
	entity.SortCompleted:   "completed",
}

func sortColumn(f entity.SortField) string {
	if col, ok := sortColumns[f]; ok {
		return col
	}
	return "created_at"
}
