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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates a chunk with empty or whitespace-only text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidTask indicates a Task failed validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrEmptyPrompt indicates an empty prompt on submission.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyOwnerID indicates a missing owner identity.
	ErrEmptyOwnerID = errors.New("owner id cannot be empty")

	// ErrEmptyDocumentID indicates a missing document identity.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrInvalidTaskStatus indicates an invalid TaskStatus value.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTransition indicates a status change that leaves a
	// terminal state or skips the running state.
	ErrInvalidTransition = errors.New("invalid task status transition")
)
