package model

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	Content      string     `json:"content"`
	DurationDays int        `json:"durationDays"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type CreateGoalRequest struct {
	Content      string `json:"content" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,gt=0"`
}

type UpdateGoalRequest struct {
	Content      *string `json:"content"`
	DurationDays *int    `json:"durationDays"`
}

// TaskSuggestion is what the LLM hands back for a suggested task.
type TaskSuggestion struct {
	Content  string `json:"content"`
	Duration string `json:"duration,omitempty"`
}
