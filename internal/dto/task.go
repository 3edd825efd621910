package dto

import (
	"time"

	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	WorkDate     *string             `json:"work_date"`
	DueDate      *time.Time          `json:"due_date"`
	ReminderTime *time.Time          `json:"reminder_time"`
	RepeatDays   *string             `json:"repeat_days"`
	UserID       uint64              `json:"user_id"`
	CategoryID   *uint64             `json:"category_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// BoardDTO is the kanban board. Every column is always present, empty or not.
type BoardDTO struct {
	ToDo       []TaskDTO `json:"to_do"`
	InProgress []TaskDTO `json:"in_progress"`
	Done       []TaskDTO `json:"done"`
}

// MessageResponse is the body of operations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		WorkDate:     task.WorkDate,
		DueDate:      task.DueDate,
		ReminderTime: task.ReminderTime,
		RepeatDays:   task.RepeatDays,
		UserID:       task.UserID,
		CategoryID:   task.CategoryID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToBoardDTO converts the service board projection
func ToBoardDTO(board *services.Board) BoardDTO {
	return BoardDTO{
		ToDo:       ToTaskDTOs(board.ToDo),
		InProgress: ToTaskDTOs(board.InProgress),
		Done:       ToTaskDTOs(board.Done),
	}
}
