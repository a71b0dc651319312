package service

import (
	"context"

	"github.com/goaltrack/backend/internal/db"
	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

type GoalStore interface {
	CreateGoal(ctx context.Context, userID uuid.UUID, req model.CreateGoalRequest) (*model.Goal, error)
	GetGoalsByUser(ctx context.Context, userID uuid.UUID) ([]model.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, req model.UpdateGoalRequest) (*model.Goal, error)
	CompleteGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error)
}

type GoalService struct {
	store GoalStore
}

func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store}
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	return s.store.GetGoalsByUser(ctx, userID)
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, req model.CreateGoalRequest) (*model.Goal, error) {
	if req.Content == "" || req.DurationDays <= 0 {
		return nil, ErrInvalidInput
	}
	return s.store.CreateGoal(ctx, userID, req)
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, req model.UpdateGoalRequest) (*model.Goal, error) {
	if req.DurationDays != nil && *req.DurationDays <= 0 {
		return nil, ErrInvalidInput
	}
	goal, err := s.store.UpdateGoal(ctx, userID, goalID, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

// Complete stamps completed_at; completing an already-completed goal
// just refreshes the stamp.
func (s *GoalService) Complete(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.store.CompleteGoal(ctx, userID, goalID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.store.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}
