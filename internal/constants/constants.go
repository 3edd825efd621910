package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"
	// ContextKeyTask holds the task loaded by RequireTaskOwner.
	ContextKeyTask = "task"
	// ContextKeyRequestID holds the id assigned by RequestLogger.
	ContextKeyRequestID = "request_id"

	SessionCookieName = "task_session"

	HeaderRequestID  = "X-Request-ID"
	HeaderAuthToken  = "X-Auth-Token"
	HeaderTotalCount = "X-Total-Count"

	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)
