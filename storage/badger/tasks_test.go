package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.TaskRepository {
	t.Helper()
	repo, backend, err := NewMemoryTaskRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func newTestTask(taskID string) *core.Task {
	return &core.Task{
		TaskID:    taskID,
		Status:    core.TaskStatusRunning,
		Prompt:    "summarize the report",
		OwnerID:   "owner-1",
		DocIDs:    []string{"doc-1"},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestTaskRepository_PutGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTestTask("task-1")
	require.NoError(t, repo.PutTask(ctx, task))

	loaded, err := repo.GetTask(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, task.TaskID, loaded.TaskID)
	assert.Equal(t, core.TaskStatusRunning, loaded.Status)
	assert.Equal(t, task.Prompt, loaded.Prompt)
	assert.Equal(t, task.OwnerID, loaded.OwnerID)
	assert.Equal(t, task.DocIDs, loaded.DocIDs)
	assert.True(t, task.CreatedAt.Equal(loaded.CreatedAt))
}

func TestTaskRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetTask(context.Background(), "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTaskRepository_Update(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTestTask("task-1")
	require.NoError(t, repo.PutTask(ctx, task))

	task.Status = core.TaskStatusCompleted
	task.Result = "Revenue grew 20%."
	task.CompletedAt = time.Now().UTC().Truncate(time.Microsecond)
	task.SessionID = "sess-1"
	require.NoError(t, repo.UpdateTask(ctx, task))

	loaded, err := repo.GetTask(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusCompleted, loaded.Status)
	assert.Equal(t, "Revenue grew 20%.", loaded.Result)
	assert.Equal(t, "sess-1", loaded.SessionID)
	assert.True(t, task.CompletedAt.Equal(loaded.CompletedAt))
}

func TestTaskRepository_UpdateMissing(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateTask(context.Background(), newTestTask("never-stored"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTaskRepository_PutInvalid(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.PutTask(context.Background(), &core.Task{TaskID: ""})
	assert.Error(t, err)
}

func TestTaskRepository_Retention(t *testing.T) {
	repo, backend, err := NewMemoryTaskRepository(WithRetention(50 * time.Millisecond))
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	require.NoError(t, repo.PutTask(ctx, newTestTask("short-lived")))

	_, err = repo.GetTask(ctx, "short-lived")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = repo.GetTask(ctx, "short-lived")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
