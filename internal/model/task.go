package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	GoalID      *uuid.UUID `json:"goalId,omitempty"`
	Status      TaskStatus `json:"status"`
	Content     string     `json:"content"`
	Duration    *string    `json:"duration,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CreateTaskRequest struct {
	Content  string     `json:"content" binding:"required"`
	Duration *string    `json:"duration"`
	GoalID   *uuid.UUID `json:"goal"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched.
type UpdateTaskRequest struct {
	Content  *string     `json:"content"`
	Duration *string     `json:"duration"`
	Status   *TaskStatus `json:"status"`
	GoalID   *uuid.UUID  `json:"goal"`
}
