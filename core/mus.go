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


package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types. Fields are written in declaration
// order; timestamps are encoded as Unix microseconds.
var (
	IDMUS         = idMUS{}
	TimeMUS       = timeMUS{}
	AuthorMUS     = authorMUS{}
	MethodMUS     = methodMUS{}
	PaperMUS      = paperMUS{}
	AnnotationMUS = annotationMUS{}
)

var (
	_ mus.Serializer[ID]         = IDMUS
	_ mus.Serializer[time.Time]  = TimeMUS
	_ mus.Serializer[Author]     = AuthorMUS
	_ mus.Serializer[Method]     = MethodMUS
	_ mus.Serializer[Paper]      = PaperMUS
	_ mus.Serializer[Annotation] = AnnotationMUS
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	micro, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micro).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type authorMUS struct{}

func (authorMUS) Marshal(v Author, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.Affiliation, bs[n:])
	return n
}

func (authorMUS) Unmarshal(bs []byte) (v Author, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Affiliation, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (authorMUS) Size(v Author) int {
	return ord.String.Size(v.Name) + ord.String.Size(v.Affiliation)
}

func (s authorMUS) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type methodMUS struct{}

func (methodMUS) Marshal(v Method, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.Acronym, bs[n:])
	return n
}

func (methodMUS) Unmarshal(bs []byte) (v Method, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Acronym, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (methodMUS) Size(v Method) int {
	return ord.String.Size(v.Name) + ord.String.Size(v.Acronym)
}

func (s methodMUS) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type paperMUS struct{}

func (paperMUS) Marshal(v Paper, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.ArxivId, bs[n:])
	n += ord.String.Marshal(v.Url, bs[n:])
	n += ord.String.Marshal(v.PdfUrl, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += varint.Int.Marshal(len(v.Authors), bs[n:])
	for _, author := range v.Authors {
		n += AuthorMUS.Marshal(author, bs[n:])
	}
	n += ord.String.Marshal(v.Comment, bs[n:])
	n += varint.Int.Marshal(v.Pages, bs[n:])
	n += varint.Int.Marshal(v.Figures, bs[n:])
	n += varint.Int.Marshal(len(v.Categories), bs[n:])
	for _, category := range v.Categories {
		n += ord.String.Marshal(category, bs[n:])
	}
	n += ord.String.Marshal(v.Text, bs[n:])
	n += TimeMUS.Marshal(v.Published, bs[n:])
	n += TimeMUS.Marshal(v.Updated, bs[n:])
	n += TimeMUS.Marshal(v.InsertedAt, bs[n:])
	n += TimeMUS.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (paperMUS) Unmarshal(bs []byte) (v Paper, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.ArxivId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Url, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PdfUrl, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count > 0 {
		v.Authors = make([]Author, count)
		for i := 0; i < count; i++ {
			if v.Authors[i], n1, err = AuthorMUS.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
		}
	}
	if v.Comment, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Pages, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Figures, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count > 0 {
		v.Categories = make([]string, count)
		for i := 0; i < count; i++ {
			if v.Categories[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
		}
	}
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Published, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Updated, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (paperMUS) Size(v Paper) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.ArxivId)
	size += ord.String.Size(v.Url)
	size += ord.String.Size(v.PdfUrl)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Summary)
	size += varint.Int.Size(len(v.Authors))
	for _, author := range v.Authors {
		size += AuthorMUS.Size(author)
	}
	size += ord.String.Size(v.Comment)
	size += varint.Int.Size(v.Pages)
	size += varint.Int.Size(v.Figures)
	size += varint.Int.Size(len(v.Categories))
	for _, category := range v.Categories {
		size += ord.String.Size(category)
	}
	size += ord.String.Size(v.Text)
	size += TimeMUS.Size(v.Published)
	size += TimeMUS.Size(v.Updated)
	size += TimeMUS.Size(v.InsertedAt)
	size += TimeMUS.Size(v.UpdatedAt)
	return size
}

func (s paperMUS) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type annotationMUS struct{}

func (annotationMUS) Marshal(v Annotation, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.PaperId, bs[n:])
	n += ord.String.Marshal(v.Query, bs[n:])
	n += ord.String.Marshal(v.RetrieverModel, bs[n:])
	n += ord.String.Marshal(v.GeneratorModel, bs[n:])
	n += varint.Int.Marshal(v.TopChunks, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += varint.Int.Marshal(len(v.Methods), bs[n:])
	for _, method := range v.Methods {
		n += MethodMUS.Marshal(method, bs[n:])
	}
	n += TimeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (annotationMUS) Unmarshal(bs []byte) (v Annotation, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.PaperId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Query, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.RetrieverModel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.GeneratorModel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TopChunks, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Answer, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if count > 0 {
		v.Methods = make([]Method, count)
		for i := 0; i < count; i++ {
			if v.Methods[i], n1, err = MethodMUS.Unmarshal(bs[n:]); err != nil {
				return v, n + n1, err
			}
			n += n1
		}
	}
	if v.CreatedAt, n1, err = TimeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (annotationMUS) Size(v Annotation) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.PaperId)
	size += ord.String.Size(v.Query)
	size += ord.String.Size(v.RetrieverModel)
	size += ord.String.Size(v.GeneratorModel)
	size += varint.Int.Size(v.TopChunks)
	size += ord.String.Size(v.Answer)
	size += varint.Int.Size(len(v.Methods))
	for _, method := range v.Methods {
		size += MethodMUS.Size(method)
	}
	size += TimeMUS.Size(v.CreatedAt)
	return size
}

func (s annotationMUS) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}
