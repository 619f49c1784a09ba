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


package badger

import "github.com/ragxiv/ragxiv/storage"

// NewMemoryRepositories creates in-memory paper and annotation repositories for testing.
// Returns paperRepo, annotationRepo, backend, and error.
// Caller must close both repos and backend when done.
func NewMemoryRepositories() (storage.PaperRepository, storage.AnnotationRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	paperRepo, err := NewPaperRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	annotationRepo, err := NewAnnotationRepository(backend)
	if err != nil {
		paperRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return paperRepo, annotationRepo, backend, nil
}
