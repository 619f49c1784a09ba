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


package storage

import (
	"github.com/ragxiv/ragxiv/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalPaper serializes a Paper to bytes.
func MarshalPaper(paper *core.Paper) []byte {
	buf := make([]byte, core.PaperMUS.Size(*paper))
	core.PaperMUS.Marshal(*paper, buf)
	return buf
}

// UnmarshalPaper deserializes a Paper from bytes.
func UnmarshalPaper(data []byte) (*core.Paper, error) {
	paper, _, err := core.PaperMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// MarshalAnnotation serializes an Annotation to bytes.
func MarshalAnnotation(annotation *core.Annotation) []byte {
	buf := make([]byte, core.AnnotationMUS.Size(*annotation))
	core.AnnotationMUS.Marshal(*annotation, buf)
	return buf
}

// UnmarshalAnnotation deserializes an Annotation from bytes.
func UnmarshalAnnotation(data []byte) (*core.Annotation, error) {
	annotation, _, err := core.AnnotationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &annotation, nil
}
