package service

import (
	"context"
	"testing"

	"github.com/goaltrack/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeTaskStore struct {
	tasks map[uuid.UUID]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*model.Task)}
}

func (f *fakeTaskStore) CreateTask(ctx context.Context, userID uuid.UUID, req model.CreateTaskRequest) (*model.Task, error) {
	task := &model.Task{
		ID:       uuid.New(),
		UserID:   userID,
		GoalID:   req.GoalID,
		Status:   model.TaskPending,
		Content:  req.Content,
		Duration: req.Duration,
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTaskStore) GetTasksByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var out []model.Task
	for _, task := range f.tasks {
		if task.UserID == userID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	if req.Content != nil {
		task.Content = *req.Content
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	return task, nil
}

func (f *fakeTaskStore) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	delete(f.tasks, taskID)
	return task, nil
}

func TestTaskCreateValidation(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore())
	_, err := svc.Create(context.Background(), uuid.New(), model.CreateTaskRequest{Content: ""})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskUpdateRejectsBadStatus(t *testing.T) {
	store := newFakeTaskStore()
	svc := NewTaskService(store)
	ctx := context.Background()
	userID := uuid.New()

	task, err := svc.Create(ctx, userID, model.CreateTaskRequest{Content: "read a chapter"})
	require.NoError(t, err)

	bad := model.TaskStatus("done")
	_, err = svc.Update(ctx, userID, task.ID, model.UpdateTaskRequest{Status: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)

	good := model.TaskCompleted
	updated, err := svc.Update(ctx, userID, task.ID, model.UpdateTaskRequest{Status: &good})
	require.NoError(t, err)
	require.Equal(t, model.TaskCompleted, updated.Status)
}

func TestTaskOwnerScoping(t *testing.T) {
	store := newFakeTaskStore()
	svc := NewTaskService(store)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	task, err := svc.Create(ctx, owner, model.CreateTaskRequest{Content: "read a chapter"})
	require.NoError(t, err)

	// Another user's rows are indistinguishable from absent rows.
	_, err = svc.Update(ctx, stranger, task.ID, model.UpdateTaskRequest{Content: ptr("hijack")})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Delete(ctx, stranger, task.ID)
	require.ErrorIs(t, err, ErrNotFound)

	strangerTasks, err := svc.List(ctx, stranger)
	require.NoError(t, err)
	require.Empty(t, strangerTasks)

	deleted, err := svc.Delete(ctx, owner, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, deleted.ID)
	_, err = svc.Delete(ctx, owner, task.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
