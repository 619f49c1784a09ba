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


// Package ai provides abstractions for the AI services ragxiv uses.
//
// Two services drive the pipeline: an Embedder turns text into vectors
// for chunk retrieval, and a Generator answers prompts with a language
// model. The Provider interface aggregates both for convenient
// initialization and lifecycle management.
//
// Implementation sub-packages:
//
//   - ai/openai: production implementation against OpenAI-compatible
//     APIs (Ollama, LocalAI, vLLM)
//   - ai/mock: deterministic test doubles
//
// Public constructors in the implementation packages return the
// interface types defined here, so callers stay decoupled from the
// concrete clients.
//
// The package also carries the query registry: the named extraction
// queries (material, exp_or_comp, methods, filter_methods), each pairing
// a retrieval query with the prompt template filled from the retrieved
// chunks.
package ai
