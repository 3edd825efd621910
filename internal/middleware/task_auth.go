package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-task-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-task-api/internal/errors"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/services"
)

// OwnedTaskLoader loads a task on behalf of an actor.
type OwnedTaskLoader interface {
	GetOwnedTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error)
}

// RequireTaskOwner loads the task named by the :id parameter and checks that
// the current user owns it. Must run after RequireAuth.
func RequireTaskOwner(tasks OwnedTaskLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.AbortWithError(c, http.StatusBadRequest, apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "Invalid task ID"))
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		task, err := tasks.GetOwnedTask(c.Request.Context(), taskID, userID)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.AbortWithError(c, http.StatusNotFound, apierrors.NewAPIError(apierrors.ErrCodeNotFound, err.Error()))
			return
		case errors.Is(err, services.ErrNotTaskOwner):
			apierrors.AbortWithError(c, http.StatusForbidden, apierrors.NewAPIError(apierrors.ErrCodeForbidden, err.Error()))
			return
		default:
			apierrors.AbortWithError(c, http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, err.Error()))
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task stored by RequireTaskOwner
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}
