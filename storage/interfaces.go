package storage

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// ObjectStore provides byte-level access to named objects. Keys are
// slash-separated paths such as "embeddings/owner/doc.jsonl".
// Implementations must be thread-safe.
type ObjectStore interface {
	// Get retrieves the full contents of an object.
	// Returns ErrNotFound if the object doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores an object, replacing any existing contents atomically.
	Put(ctx context.Context, key string, data []byte) error

	// Exists reports whether an object is present without reading it.
	Exists(ctx context.Context, key string) (bool, error)
}

// TaskRepository provides operations for managing analysis tasks.
// Implementations must be thread-safe and support concurrent access.
type TaskRepository interface {
	// PutTask stores a new task record keyed by its TaskID.
	PutTask(ctx context.Context, task *core.Task) error

	// GetTask retrieves a task by ID.
	// Returns ErrNotFound if the task doesn't exist or has expired.
	GetTask(ctx context.Context, taskID string) (*core.Task, error)

	// UpdateTask replaces an existing task record.
	// Returns ErrNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, task *core.Task) error

	// Close closes the repository and releases resources.
	Close() error
}
