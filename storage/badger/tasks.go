package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/storage"
)

// defaultTaskRetention bounds how long finished and abandoned task records
// stay readable before BadgerDB expires them.
const defaultTaskRetention = 24 * time.Hour

// TaskRepository implements storage.TaskRepository for BadgerDB.
// Every record is written with a TTL so stale tasks age out without a
// sweeper process.
type TaskRepository struct {
	backend   *Backend
	retention time.Duration
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// TaskRepositoryOption configures a TaskRepository.
type TaskRepositoryOption func(*TaskRepository)

// WithRetention sets how long task records remain readable.
func WithRetention(d time.Duration) TaskRepositoryOption {
	return func(r *TaskRepository) {
		if d > 0 {
			r.retention = d
		}
	}
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend, opts ...TaskRepositoryOption) *TaskRepository {
	r := &TaskRepository{
		backend:   backend,
		retention: defaultTaskRetention,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close is a no-op; the underlying backend owns the database handle.
func (r *TaskRepository) Close() error {
	return nil
}

// PutTask stores a new task record keyed by its TaskID.
func (r *TaskRepository) PutTask(ctx context.Context, task *core.Task) error {
	if err := core.ValidateTask(task); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.setTask(tx, task); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTask retrieves a task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, taskID string) (*core.Task, error) {
	var task *core.Task

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTaskKey(taskID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			task, err = storage.UnmarshalTask(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask replaces an existing task record.
func (r *TaskRepository) UpdateTask(ctx context.Context, task *core.Task) error {
	if err := core.ValidateTask(task); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeTaskKey(task.TaskID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := r.setTask(tx, task); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (r *TaskRepository) setTask(tx *badger.Txn, task *core.Task) error {
	entry := badger.NewEntry(makeTaskKey(task.TaskID), storage.MarshalTask(task)).
		WithTTL(r.retention)
	return tx.SetEntry(entry)
}
