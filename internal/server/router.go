package server

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-task-api/internal/constants"
	"github.com/yukikurage/kanban-task-api/internal/handlers"
	"github.com/yukikurage/kanban-task-api/internal/middleware"
	"github.com/yukikurage/kanban-task-api/internal/repository"
	"github.com/yukikurage/kanban-task-api/internal/services"
	"gorm.io/gorm"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	SessionStore   sessions.Store
	TokenService   *services.TokenService
	RequestTimeout time.Duration
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)

	authService := services.NewAuthService(userRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, categoryRepo, logger)
	categoryService := services.NewCategoryService(categoryRepo)

	authHandler := handlers.NewAuthHandler(authService, deps.TokenService)
	taskHandler := handlers.NewTaskHandler(taskService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	requireAuth := middleware.RequireAuth(deps.TokenService, authService)
	requireOwner := middleware.RequireTaskOwner(taskService)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.RequestTimeout(deps.RequestTimeout),
		sessions.Sessions(constants.SessionCookieName, deps.SessionStore),
	)

	r.GET("/health", healthHandler.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		auth.DELETE("/me", requireAuth, authHandler.DeleteAccount)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", requireOwner, taskHandler.GetTask)
		tasks.PUT("/:id", requireOwner, taskHandler.UpdateTask)
		tasks.PUT("/:id/move", requireOwner, taskHandler.MoveTask)
		tasks.DELETE("/:id", requireOwner, taskHandler.DeleteTask)
	}

	r.GET("/board", requireAuth, taskHandler.Board)

	categories := r.Group("/categories")
	categories.Use(requireAuth)
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	return r
}
