// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - DocType must be set
//
// NOT validated (populated later in the pipeline):
//   - Embedding (attached by the embedder)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.Metadata.DocType == "" {
		return fmt.Errorf("%w: docType is required", ErrInvalidChunk)
	}

	return nil
}

// ValidateTask validates a Task according to domain rules.
//
// Validation rules:
//   - TaskID and OwnerID must not be empty
//   - Prompt must not be empty
//   - Status must be a known value
func ValidateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}

	if task.TaskID == "" {
		return fmt.Errorf("%w: task id is required", ErrInvalidTask)
	}

	if task.Prompt == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyPrompt)
	}

	if task.OwnerID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyOwnerID)
	}

	if err := ValidateTaskStatus(task.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	return nil
}

// ValidateTaskStatus validates that a TaskStatus has a valid value.
func ValidateTaskStatus(status TaskStatus) error {
	switch status {
	case TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidTaskStatus, status)
	}
}

// ValidateTransition checks that a status change is legal.
// The only legal transitions are Running -> Completed and Running -> Failed;
// terminal states are never revisited.
func ValidateTransition(from, to TaskStatus) error {
	if err := ValidateTaskStatus(from); err != nil {
		return err
	}
	if err := ValidateTaskStatus(to); err != nil {
		return err
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if !to.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
