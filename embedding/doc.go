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

// Package embedding provides the text embedding abstraction used when
// importing documents and when searching stored chunks by free text.
//
// Comparisons never call an embedder: they work on vectors already stored
// with each chunk. An Embedder is only needed for chunks that arrive
// without vectors and for query text.
//
// # Implementation Packages
//
//   - embedding/openai: OpenAI-compatible APIs through langchaingo
//   - embedding/mock: deterministic test doubles
//
// # Constructor Return Type Pattern
//
// Production constructors (openai.NewProvider, openai.NewEmbedder) return
// interfaces. Mock constructors return concrete types so tests can inspect
// call counts and inject behavior.
package embedding
