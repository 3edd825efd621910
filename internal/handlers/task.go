package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-task-api/internal/constants"
	"github.com/yukikurage/kanban-task-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-task-api/internal/errors"
	"github.com/yukikurage/kanban-task-api/internal/middleware"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/services"
	"github.com/yukikurage/kanban-task-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the current user's tasks, highest priority first.
// Optional query: priority, category_id, page, limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{UserID: userID}

	if priority := c.Query("priority"); priority != "" {
		input.Priority = &priority
	}
	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category_id")
			return
		}
		input.CategoryID = &categoryID
	}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Pagination = &params
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	if input.Pagination != nil {
		c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns the task loaded by RequireTaskOwner
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

type createTaskRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	CategoryID   *uint64 `json:"category_id"`
	WorkDate     *string `json:"work_date"`
	DueDate      *string `json:"due_date"`
	Deadline     *string `json:"deadline"`
	ReminderTime *string `json:"reminder_time"`
	Reminder     *string `json:"reminder"`
	RepeatDays   any     `json:"repeat_days"`
}

// CreateTask creates a task owned by the current user.
// "deadline" and "reminder" are accepted as aliases of due_date and reminder_time.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	repeatDays, err := utils.NormalizeRepeatDays(req.RepeatDays)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		CategoryID:   req.CategoryID,
		WorkDate:     req.WorkDate,
		DueDate:      firstNonNil(req.DueDate, req.Deadline),
		ReminderTime: firstNonNil(req.ReminderTime, req.Reminder),
		RepeatDays:   repeatDays,
		UserID:       userID,
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Only keys present in the body change;
// null clears a nullable field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseUpdateTaskInput(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.ID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// MoveTask changes only the status of a task
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type MoveTaskRequest struct {
		Status string `json:"status"`
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	moved, err := h.taskService.MoveTask(c.Request.Context(), task.ID, userID, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*moved))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// Board returns the current user's tasks grouped into kanban columns
func (h *TaskHandler) Board(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	board, err := h.taskService.Board(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(board))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrUnknownCategory):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, models.ErrInvalidStatus):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"field": "status", "allowed": models.TaskStatuses()})
	case errors.Is(err, models.ErrInvalidPriority):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"field": "priority", "allowed": models.TaskPriorities()})
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}

// parseUpdateTaskInput maps a decoded JSON object onto UpdateTaskInput,
// keeping the distinction between an absent key and an explicit null.
func parseUpdateTaskInput(raw map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput
	var err error

	if value, ok := raw["title"]; ok {
		// null title is the same as an empty one
		if input.Title, err = optionalString("title", value); err != nil {
			return input, err
		}
		if input.Title == nil {
			empty := ""
			input.Title = &empty
		}
	}
	if value, ok := raw["description"]; ok {
		if input.Description, err = optionalString("description", value); err != nil {
			return input, err
		}
		if input.Description == nil {
			empty := ""
			input.Description = &empty
		}
	}
	if value, ok := raw["status"]; ok {
		status, isString := value.(string)
		if !isString {
			return input, models.ErrInvalidStatus
		}
		input.Status = &status
	}
	if value, ok := raw["priority"]; ok {
		priority, isString := value.(string)
		if !isString {
			return input, models.ErrInvalidPriority
		}
		input.Priority = &priority
	}
	if value, ok := raw["category_id"]; ok {
		if value == nil {
			input.ClearCategory = true
		} else if input.CategoryID, err = parseID("category_id", value); err != nil {
			return input, err
		}
	}

	clearable := []struct {
		key   string
		value **string
		clear *bool
	}{
		{"work_date", &input.WorkDate, &input.ClearWorkDate},
		{"due_date", &input.DueDate, &input.ClearDueDate},
		{"reminder_time", &input.ReminderTime, &input.ClearReminderTime},
	}
	for _, field := range clearable {
		value, ok := raw[field.key]
		if !ok {
			continue
		}
		parsed, err := optionalString(field.key, value)
		if err != nil {
			return input, err
		}
		if parsed == nil || *parsed == "" {
			*field.clear = true
			continue
		}
		*field.value = parsed
	}

	if value, ok := raw["repeat_days"]; ok {
		repeatDays, err := utils.NormalizeRepeatDays(value)
		if err != nil {
			return input, err
		}
		if repeatDays == nil {
			input.ClearRepeatDays = true
		} else {
			input.RepeatDays = repeatDays
		}
	}

	return input, nil
}

func optionalString(key string, value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &s, nil
}

func parseID(key string, value any) (*uint64, error) {
	switch v := value.(type) {
	case float64:
		if v < 1 || v != math.Trunc(v) {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		id := uint64(v)
		return &id, nil
	case json.Number:
		id, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return &id, nil
	default:
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
