package orchestrator

import (
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// WorkflowTrigger starts the asynchronous generation workflow for a task.
// A non-nil error means the workflow never started and the task must be
// failed synchronously.
type WorkflowTrigger interface {
	StartExecution(fn func()) error
}

// PoolTrigger runs workflows on a bounded goroutine pool.
type PoolTrigger struct {
	pool *ants.Pool
}

var _ WorkflowTrigger = (*PoolTrigger)(nil)

// NewPoolTrigger creates a PoolTrigger with the given worker count.
// A non-positive size defaults to half the CPU count, minimum 1.
func NewPoolTrigger(size int) (*PoolTrigger, error) {
	if size < 1 {
		size = runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &PoolTrigger{pool: pool}, nil
}

// StartExecution submits the workflow to the pool.
func (t *PoolTrigger) StartExecution(fn func()) error {
	return t.pool.Submit(fn)
}

// Release shuts down the pool. Pending workflows are abandoned.
func (t *PoolTrigger) Release() {
	t.pool.Release()
}
