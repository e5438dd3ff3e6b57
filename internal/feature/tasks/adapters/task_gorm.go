package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/internal/feature/tasks/domain/entity"
	"taskmanager/internal/feature/tasks/usecase"
)

// taskGorm is a gorm implementation of the TaskRepository interface.
type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

// NewTaskGorm creates a new instance of taskGorm.
func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// ownedBy scopes a query to one owner.
func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func (r *taskGorm) Create(ctx context.Context, task *entity.Task) error {
	model := TaskModelFromEntity(task)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	task.CreatedAt, task.UpdatedAt = model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *taskGorm) List(ctx context.Context, ownerID string, filter entity.ListFilter) ([]entity.Task, error) {
	q := r.db.WithContext(ctx).Model(&TaskModel{}).Scopes(ownedBy(ownerID))
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn(filter.SortBy)}, Desc: filter.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.Desc})
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset())
	}

	var models []TaskModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	tasks := make([]entity.Task, len(models))
	for i := range models {
		tasks[i] = models[i].ToEntity()
	}
	return tasks, nil
}

func (r *taskGorm) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	var model TaskModel
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	task := model.ToEntity()
	return &task, nil
}

// Update writes a map so completed=false is persisted.
func (r *taskGorm) Update(ctx context.Context, task *entity.Task) error {
	result := r.db.WithContext(ctx).
		Model(&TaskModel{}).
		Scopes(ownedBy(task.OwnerID)).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

func (r *taskGorm) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(&TaskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

func (r *taskGorm) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Delete(&TaskModel{})
	return result.RowsAffected, result.Error
}
