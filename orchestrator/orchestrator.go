package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/docquery/answer"
	"github.com/poiesic/docquery/core"
	"github.com/poiesic/docquery/search"
	"github.com/poiesic/docquery/storage"
)

// defaultTaskTimeout bounds one workflow run end to end, covering the
// retrieval reads and the generative call.
const defaultTaskTimeout = 3 * time.Minute

// Retriever ranks stored content against a query. *search.Retriever
// satisfies this interface.
type Retriever interface {
	RetrieveTopK(ctx context.Context, query, ownerID string, docIDs []string, k int) ([]core.RetrievalHit, error)
}

// Composer produces an answer from retrieval hits. *answer.Composer
// satisfies this interface.
type Composer interface {
	Compose(ctx context.Context, prompt string, hits []core.RetrievalHit, docIDs []string) *answer.Answer
}

// Orchestrator drives the task lifecycle: persist RUNNING at submission,
// dispatch the generation workflow, and transition to a terminal state
// exactly once. Each task gets exactly one generation attempt; failures
// are recorded, never re-driven.
type Orchestrator struct {
	tasks        storage.TaskRepository
	trigger      WorkflowTrigger
	retriever    Retriever
	composer     Composer
	refineConfig search.RefineConfig
	taskTimeout  time.Duration
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTaskTimeout bounds how long one workflow run may take.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.taskTimeout = d
		}
	}
}

// WithRefineConfig replaces the default hit-refinement configuration.
func WithRefineConfig(config search.RefineConfig) Option {
	return func(o *Orchestrator) {
		o.refineConfig = config
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(tasks storage.TaskRepository, trigger WorkflowTrigger, retriever Retriever, composer Composer, opts ...Option) (*Orchestrator, error) {
	if tasks == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if trigger == nil {
		return nil, ErrTriggerRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if composer == nil {
		return nil, ErrComposerRequired
	}

	o := &Orchestrator{
		tasks:        tasks,
		trigger:      trigger,
		retriever:    retriever,
		composer:     composer,
		refineConfig: search.DefaultRefineConfig(),
		taskTimeout:  defaultTaskTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Submit registers a new analysis task and dispatches its workflow,
// returning the task id for polling. When the workflow cannot be started
// the task is transitioned to FAILED before this returns, so a caller is
// never left polling a task that will not change.
func (o *Orchestrator) Submit(ctx context.Context, prompt, ownerID string, docIDs []string) (string, error) {
	task := &core.Task{
		TaskID:    uuid.NewString(),
		Status:    core.TaskStatusRunning,
		Prompt:    prompt,
		OwnerID:   ownerID,
		DocIDs:    docIDs,
		CreatedAt: time.Now().UTC(),
	}

	if err := o.tasks.PutTask(ctx, task); err != nil {
		return "", err
	}

	o.logger.Info("task submitted",
		"task", task.TaskID,
		"owner", ownerID,
		"documents", len(docIDs))

	if err := o.trigger.StartExecution(func() { o.runTask(task) }); err != nil {
		o.logger.Error("workflow dispatch failed, failing task",
			"task", task.TaskID,
			"error", err)
		o.finishTask(ctx, task, core.TaskStatusFailed, "", "", fmt.Sprintf("dispatch failed: %v", err))
		return "", fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return task.TaskID, nil
}

// GetStatus retrieves the current state of a task.
func (o *Orchestrator) GetStatus(ctx context.Context, taskID string) (*core.Task, error) {
	return o.tasks.GetTask(ctx, taskID)
}

// runTask executes the retrieval and composition workflow for one task
// and records the terminal state. A panic anywhere in the workflow is
// recorded as the task's error; a task is never left RUNNING.
func (o *Orchestrator) runTask(task *core.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), o.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("workflow panicked",
				"task", task.TaskID,
				"panic", r)
			o.finishTask(ctx, task, core.TaskStatusFailed, "", "", fmt.Sprintf("workflow panic: %v", r))
		}
	}()

	hits, err := o.retriever.RetrieveTopK(ctx, task.Prompt, task.OwnerID, task.DocIDs, 0)
	if err != nil {
		o.logger.Error("retrieval failed",
			"task", task.TaskID,
			"error", err)
		o.finishTask(ctx, task, core.TaskStatusFailed, "", "", err.Error())
		return
	}

	hits = search.Refine(task.Prompt, hits, o.refineConfig)

	result := o.composer.Compose(ctx, task.Prompt, hits, task.DocIDs)
	sessionID := "sess-" + uuid.NewString()

	o.finishTask(ctx, task, core.TaskStatusCompleted, result.Report, sessionID, "")
	o.logger.Info("task completed",
		"task", task.TaskID,
		"hits", len(hits),
		"session", sessionID)
}

// finishTask transitions a task to a terminal state and persists it.
func (o *Orchestrator) finishTask(ctx context.Context, task *core.Task, status core.TaskStatus, result, sessionID, errMsg string) {
	if err := core.ValidateTransition(task.Status, status); err != nil {
		o.logger.Error("refusing illegal task transition",
			"task", task.TaskID,
			"from", task.Status,
			"to", status,
			"error", err)
		return
	}

	task.Status = status
	task.Result = result
	task.SessionID = sessionID
	task.Error = errMsg
	task.CompletedAt = time.Now().UTC()

	if err := o.tasks.UpdateTask(ctx, task); err != nil {
		o.logger.Error("failed to persist task state",
			"task", task.TaskID,
			"status", status,
			"error", err)
	}
}
