package db

import (
	"context"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

const taskColumns = `id, user_id, goal_id, status, content, duration, created_at, updated_at, completed_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.GoalID,
		&task.Status,
		&task.Content,
		&task.Duration,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (db *Postgres) CreateTask(ctx context.Context, userID uuid.UUID, req model.CreateTaskRequest) (*model.Task, error) {
	query := `
		INSERT INTO tasks (user_id, goal_id, status, content, duration)
		VALUES ($1, $2, 'pending', $3, $4)
		RETURNING ` + taskColumns
	return scanTask(db.Pool.QueryRow(ctx, query, userID, req.GoalID, req.Content, req.Duration))
}

func (db *Postgres) GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a partial update to a task owned by userID.
// completed_at is stamped when the status moves to completed and cleared
// otherwise, matching how the dashboard reports completion times.
func (db *Postgres) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	query := `
		UPDATE tasks
		SET content = COALESCE($3, content),
		    duration = COALESCE($4, duration),
		    status = COALESCE($5, status),
		    goal_id = COALESCE($6, goal_id),
		    updated_at = NOW(),
		    completed_at = CASE WHEN COALESCE($5, status) = 'completed' THEN NOW() ELSE NULL END
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(db.Pool.QueryRow(ctx, query, taskID, userID, req.Content, req.Duration, req.Status, req.GoalID))
}

func (db *Postgres) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(db.Pool.QueryRow(ctx, query, taskID, userID))
}
