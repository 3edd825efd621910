package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/repository"
	"github.com/yukikurage/kanban-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrNotTaskOwner    = errors.New("only the task owner can access this task")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrUnknownCategory = errors.New("category does not exist")
)

// timestampLayouts are the ISO-8601 forms accepted for due_date and reminder_time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// TaskService owns the task lifecycle and the read-side projections over it.
type TaskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateTaskInput represents input for creating a task. Nil pointers mean
// the field was not sent.
type CreateTaskInput struct {
	Title        string
	Description  *string
	Status       *string
	Priority     *string
	CategoryID   *uint64
	WorkDate     *string
	DueDate      *string
	ReminderTime *string
	RepeatDays   *string
	UserID       uint64
}

// UpdateTaskInput represents a partial update. Nil pointers leave the stored
// value untouched; the Clear flags reset a nullable field to absent.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Status            *string
	Priority          *string
	CategoryID        *uint64
	ClearCategory     bool
	WorkDate          *string
	ClearWorkDate     bool
	DueDate           *string
	ClearDueDate      bool
	ReminderTime      *string
	ClearReminderTime bool
	RepeatDays        *string
	ClearRepeatDays   bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	CategoryID *uint64
	Priority   *string
	Pagination *utils.PaginationParams
}

// Board is the kanban projection of a user's tasks.
type Board struct {
	ToDo       []models.Task
	InProgress []models.Task
	Done       []models.Task
}

// CreateTask validates the input and stores a new task owned by input.UserID
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:    input.Title,
		Status:   models.TaskStatusTodo,
		Priority: models.TaskPriorityMedium,
		UserID:   input.UserID,
	}

	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		status, err := models.ValidateStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != nil && *input.Priority != "" {
		priority, err := models.ValidatePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	task.WorkDate = nonEmpty(input.WorkDate)
	task.DueDate = s.parseTimestamp("due_date", input.DueDate)
	task.ReminderTime = s.parseTimestamp("reminder_time", input.ReminderTime)
	task.RepeatDays = nonEmpty(input.RepeatDays)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task by id
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// GetOwnedTask returns a task only if actorID owns it
func (s *TaskService) GetOwnedTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// UpdateTask applies the fields present in input. An invalid status or
// priority rejects the whole update, same as on create.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetOwnedTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status, err := models.ValidateStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := models.ValidatePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = priority
	}

	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	if input.ClearWorkDate {
		task.WorkDate = nil
	} else if input.WorkDate != nil {
		task.WorkDate = nonEmpty(input.WorkDate)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = s.parseTimestamp("due_date", input.DueDate)
	}
	if input.ClearReminderTime {
		task.ReminderTime = nil
	} else if input.ReminderTime != nil {
		task.ReminderTime = s.parseTimestamp("reminder_time", input.ReminderTime)
	}
	if input.ClearRepeatDays {
		task.RepeatDays = nil
	} else if input.RepeatDays != nil {
		task.RepeatDays = nonEmpty(input.RepeatDays)
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// MoveTask overwrites the status of a task. Any status may follow any other.
func (s *TaskService) MoveTask(ctx context.Context, taskID, actorID uint64, rawStatus string) (*models.Task, error) {
	status, err := models.ValidateStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	task, err := s.GetOwnedTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, status); err != nil {
		return nil, fmt.Errorf("failed to move task: %w", err)
	}

	task.Status = status
	return task, nil
}

// DeleteTask deletes a task if the actor owns it
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint64) error {
	if _, err := s.GetOwnedTask(ctx, taskID, actorID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListTasks returns the user's tasks ordered by priority rank, then id.
// The second result is the total before pagination.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:     &input.UserID,
		CategoryID: input.CategoryID,
		Pagination: input.Pagination,
	}

	if input.Priority != nil {
		priority, err := models.ValidatePriority(*input.Priority)
		if err != nil {
			return nil, 0, err
		}
		filter.Priority = &priority
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Board partitions the user's tasks by status. Tasks whose status is not
// one of the three columns are left out.
func (s *TaskService) Board(ctx context.Context, userID uint64) (*Board, error) {
	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{
		UserID:   &userID,
		Statuses: models.TaskStatuses(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	board := &Board{
		ToDo:       []models.Task{},
		InProgress: []models.Task{},
		Done:       []models.Task{},
	}
	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusTodo:
			board.ToDo = append(board.ToDo, task)
		case models.TaskStatusInProgress:
			board.InProgress = append(board.InProgress, task)
		case models.TaskStatusDone:
			board.Done = append(board.Done, task)
		}
	}

	SortTasks(board.ToDo)
	SortTasks(board.InProgress)
	SortTasks(board.Done)

	return board, nil
}

// SortTasks orders tasks in place by priority rank, then id.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := models.PriorityRank(tasks[i].Priority), models.PriorityRank(tasks[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func (s *TaskService) ensureCategoryExists(ctx context.Context, categoryID uint64) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownCategory
		}
		return fmt.Errorf("failed to find category: %w", err)
	}
	return nil
}

// parseTimestamp parses an optional ISO-8601 value. Malformed input is
// logged and treated as absent rather than failing the request.
func (s *TaskService) parseTimestamp(field string, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}

	value := strings.TrimSpace(*raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}

	s.logger.Warn("ignoring unparseable timestamp", "field", field, "value", value)
	return nil
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
