package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/kanban-task-api/internal/utils"
)

// PriorityOrderSQL ranks high=1, medium=2, low=3 and anything else 4.
const PriorityOrderSQL = "CASE tasks.priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END"

// PriorityOrder sorts tasks by priority rank, then by id.
func PriorityOrder(db *gorm.DB) *gorm.DB {
	return db.Order(PriorityOrderSQL).Order("tasks.id ASC")
}

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
