package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/kanban-task-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   any
	table   string
	name    string
	columns string
}

// indexes backs the list and board queries, which filter by owner or
// category and order by priority.
var indexes = []index{
	{&models.Task{}, "tasks", "idx_tasks_user_id", "user_id"},
	{&models.Task{}, "tasks", "idx_tasks_category_id", "category_id"},
	{&models.Task{}, "tasks", "idx_tasks_status", "status"},
	{&models.Task{}, "tasks", "idx_tasks_priority", "priority"},
}

// AddIndexes creates any missing secondary index.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
