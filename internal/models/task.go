package models

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var (
	ErrInvalidStatus   = errors.New("invalid status (allowed: To Do, In Progress, Done)")
	ErrInvalidPriority = errors.New("invalid priority (allowed: low, medium, high)")
)

// TaskStatuses lists the board columns in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}
}

// TaskPriorities lists the accepted priorities, highest first.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}
}

// IsValid reports whether s is one of the three board columns.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// NormalizePriority case-folds raw priority input. The result may still be invalid.
func NormalizePriority(raw string) TaskPriority {
	return TaskPriority(strings.ToLower(strings.TrimSpace(raw)))
}

// ValidateStatus is the single status check shared by create, update and move.
// Status strings are matched exactly.
func ValidateStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ValidatePriority is the single priority check shared by create, update and list filters.
func ValidatePriority(raw string) (TaskPriority, error) {
	priority := NormalizePriority(raw)
	if !priority.IsValid() {
		return "", ErrInvalidPriority
	}
	return priority, nil
}

// PriorityRank orders priorities for sorting: high=1, medium=2, low=3, anything else=4.
func PriorityRank(p TaskPriority) int {
	switch p {
	case TaskPriorityHigh:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 3
	default:
		return 4
	}
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(50);not null;default:'To Do'" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	WorkDate     *string      `gorm:"type:varchar(20)" json:"work_date"`
	DueDate      *time.Time   `json:"due_date"`
	ReminderTime *time.Time   `json:"reminder_time"`
	RepeatDays   *string      `gorm:"type:varchar(100)" json:"repeat_days"`
	UserID       uint64       `gorm:"not null" json:"user_id"`
	CategoryID   *uint64      `json:"category_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}
