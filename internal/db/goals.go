package db

import (
	"context"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

const goalColumns = `id, user_id, content, duration_days, created_at, completed_at`

func scanGoal(row interface{ Scan(...any) error }) (*model.Goal, error) {
	var goal model.Goal
	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Content,
		&goal.DurationDays,
		&goal.CreatedAt,
		&goal.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (db *Postgres) CreateGoal(ctx context.Context, userID uuid.UUID, req model.CreateGoalRequest) (*model.Goal, error) {
	query := `
		INSERT INTO goals (user_id, content, duration_days)
		VALUES ($1, $2, $3)
		RETURNING ` + goalColumns
	return scanGoal(db.Pool.QueryRow(ctx, query, userID, req.Content, req.DurationDays))
}

func (db *Postgres) GetGoalsByUser(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (db *Postgres) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, req model.UpdateGoalRequest) (*model.Goal, error) {
	query := `
		UPDATE goals
		SET content = COALESCE($3, content),
		    duration_days = COALESCE($4, duration_days)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + goalColumns
	return scanGoal(db.Pool.QueryRow(ctx, query, goalID, userID, req.Content, req.DurationDays))
}

func (db *Postgres) CompleteGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	query := `
		UPDATE goals
		SET completed_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + goalColumns
	return scanGoal(db.Pool.QueryRow(ctx, query, goalID, userID))
}

func (db *Postgres) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	query := `
		DELETE FROM goals
		WHERE id = $1 AND user_id = $2
		RETURNING ` + goalColumns
	return scanGoal(db.Pool.QueryRow(ctx, query, goalID, userID))
}
