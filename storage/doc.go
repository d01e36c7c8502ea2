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


// Package storage provides the storage abstraction layer for docquery.
//
// Two stores back the system:
//
//   - ObjectStore: flat byte objects addressed by slash-separated keys.
//     Embedding records and parsed documents live here, one object per
//     (owner, document) pair. The object package provides a filesystem
//     implementation.
//   - TaskRepository: task records for asynchronous analysis, keyed by
//     task ID. The badger package provides a BadgerDB implementation
//     with time-based retention.
//
// VectorStore layers the JSON Lines embedding format on top of any
// ObjectStore, so swapping the object backend (filesystem, S3, in-memory)
// requires no changes to the retrieval path.
//
// # Constructor Return Type Pattern
//
// Public constructors for backends return the package's interfaces so
// consumers never couple to a concrete store:
//
//	tasks, err := badger.NewTaskRepository(backend)  // storage.TaskRepository
//	objects, err := object.NewStore(root)            // storage.ObjectStore
//
// # Thread Safety
//
// All implementations must be safe for concurrent use from multiple
// goroutines.
package storage
