// Package orchestrator manages the lifecycle of asynchronous analysis
// tasks.
//
// A task enters RUNNING at submission and reaches exactly one terminal
// state, COMPLETED or FAILED. Workflows run on a bounded worker pool via
// the WorkflowTrigger abstraction; a dispatch failure fails the task
// synchronously so callers never poll a task that cannot progress.
package orchestrator
