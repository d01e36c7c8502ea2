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


// Package search ranks stored embedding records against user queries.
//
// The Retriever implements a multi-stage ranking over per-document record
// sets:
//   - Cosine similarity between the query embedding and each record
//   - A topic bias preferring spreadsheet rows whose topic column
//     mentions a query token
//   - A lexical term-overlap fallback for when every cosine score is
//     degenerate, which is the expected outcome for records indexed with
//     placeholder zero vectors
//
// Refine applies caller-side narrowing on top of the ranked hits, driven
// by explicit page references and domain keywords found in the query.
package search
