package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-task-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-task-api/internal/errors"
	"github.com/yukikurage/kanban-task-api/internal/models"
	"github.com/yukikurage/kanban-task-api/internal/services"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (uint64, error)
}

// UserResolver loads the account behind a session or token.
type UserResolver interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// RequireAuth checks if the user is authenticated via session or, failing
// that, via an "Authorization: Bearer" token. Credentials of a deleted
// account are rejected.
func RequireAuth(tokens TokenParser, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if raw := session.Get(constants.ContextKeyUserID); raw != nil {
			c.Set(constants.ContextKeyUserID, raw)
			userID, ok := GetUserID(c)
			if !ok || !userExists(c, users, userID) {
				if !c.IsAborted() {
					session.Clear()
					_ = session.Save()
					apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Session is no longer valid"))
				}
				return
			}
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || tokens == nil {
			apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil || !userExists(c, users, userID) {
			if !c.IsAborted() {
				apierrors.AbortWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, services.ErrInvalidToken.Error()))
			}
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// userExists reports whether the account is still present. Lookup failures
// other than not-found abort with 500.
func userExists(c *gin.Context, users UserResolver, userID uint64) bool {
	if users == nil {
		return true
	}
	_, err := users.GetUser(c.Request.Context(), userID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, services.ErrUserNotFound):
		return false
	default:
		apierrors.AbortWithError(c, http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Failed to load user"))
		return false
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
