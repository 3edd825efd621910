package repository

import (
	"context"

	"github.com/yukikurage/kanban-task-api/internal/database"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and optional pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(filter.apply).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Scopes(filter.apply, database.PriorityOrder)
	if filter.Pagination != nil {
		query = query.Scopes(database.Paginate(*filter.Pagination))
	}

	tasks := []models.Task{}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// apply adds the filter conditions to a task query
func (f TaskFilter) apply(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("tasks.user_id = ?", *f.UserID)
	}
	if f.CategoryID != nil {
		db = db.Where("tasks.category_id = ?", *f.CategoryID)
	}
	if f.Priority != nil {
		db = db.Where("tasks.priority = ?", *f.Priority)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("tasks.status IN ?", f.Statuses)
	}
	return db
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// UpdateStatus overwrites the status of a single task
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Update("status", status).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUser counts the tasks owned by a user
func (r *GormTaskRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
