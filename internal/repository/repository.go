package repository

import (
	"context"

	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks ordered by priority rank, then id
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves every column of a task
	Update(ctx context.Context, task *models.Task) error

	// UpdateStatus overwrites only the status column
	UpdateStatus(ctx context.Context, id uint64, status models.TaskStatus) error

	// Delete removes a task
	Delete(ctx context.Context, id uint64) error

	// CountByUser counts the tasks owned by a user
	CountByUser(ctx context.Context, userID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks. Nil fields are not applied.
type TaskFilter struct {
	UserID     *uint64
	CategoryID *uint64
	Priority   *models.TaskPriority
	Statuses   []models.TaskStatus
	Pagination *utils.PaginationParams
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *models.Category) error

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uint64) (*models.Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*models.Category, error)

	// List lists all categories ordered by name
	List(ctx context.Context) ([]models.Category, error)

	// Update updates a category
	Update(ctx context.Context, category *models.Category) error

	// Delete clears the category from its tasks and deletes it
	Delete(ctx context.Context, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email, ignoring case
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Delete deletes a user
	Delete(ctx context.Context, id uint64) error
}
