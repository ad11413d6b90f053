package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	UserID      uuid.UUID    `db:"user_id" json:"user_id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	DueDate     *time.Time   `db:"due_date" json:"due_date"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	IsDone      bool         `db:"is_done" json:"is_done"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
