// Copyright 2025 The ragxiv Authors
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


// Package storage provides the storage abstraction layer for ragxiv.
//
// This package defines repository interfaces that decouple storage
// implementation from the harvest and annotation pipelines. It allows
// different storage backends (BadgerDB, in-memory, etc.) to be used
// interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: common transaction and lifecycle operations
//   - PaperRepository: operations for arXiv papers
//   - AnnotationRepository: operations for LLM extraction runs
//
// Public constructors in backend packages return interface types:
//
//	repo, err := badger.NewPaperRepository(backend)  // storage.PaperRepository
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	paperRepo, annotationRepo, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
