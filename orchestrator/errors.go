package orchestrator

import "errors"

var (
	// ErrTaskRepositoryRequired is returned when a task repository is not provided.
	ErrTaskRepositoryRequired = errors.New("task repository required")

	// ErrTriggerRequired is returned when a workflow trigger is not provided.
	ErrTriggerRequired = errors.New("workflow trigger required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrComposerRequired is returned when an answer composer is not provided.
	ErrComposerRequired = errors.New("answer composer required")

	// ErrDispatchFailed is returned when the generation workflow could not
	// be started. The task is already marked FAILED when this surfaces.
	ErrDispatchFailed = errors.New("workflow dispatch failed")
)
