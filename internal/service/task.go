package service

import (
	"context"

	"github.com/goaltrack/backend/internal/db"
	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
)

type TaskStore interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req model.CreateTaskRequest) (*model.Task, error)
	GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
}

// TaskService is owner-scoped CRUD over tasks. Every operation takes the
// authenticated user id; rows belonging to other users are invisible.
type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	return s.store.GetTasksByUser(ctx, userID)
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req model.CreateTaskRequest) (*model.Task, error) {
	if req.Content == "" {
		return nil, ErrInvalidInput
	}
	return s.store.CreateTask(ctx, userID, req)
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidInput
	}
	task, err := s.store.UpdateTask(ctx, userID, taskID, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.store.DeleteTask(ctx, userID, taskID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}
