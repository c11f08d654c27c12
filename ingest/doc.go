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

// Package ingest loads chunked documents and stores them for matching.
//
// Documents arrive as YAML or JSON files produced by an upstream chunking
// step. The Importer fills in fields the producer may leave out, embeds
// chunks that carry text but no vector, normalizes every vector, and writes
// the documents through a storage.DocumentRepository.
//
// # Input Format
//
//	id: lease-2024
//	title: Commercial Lease
//	chunks:
//	  - id: lease-2024/0
//	    pageNumber: 1
//	    text: "The Lessee shall pay rent on the first day of each month."
//	    embedding: [0.12, -0.03, ...]
//
// A file may hold several YAML documents separated by "---". JSON input
// uses the same field names.
//
// # Derived Fields
//
//   - Index: the chunk's position, when every chunk of a multi-chunk document has index 0
//   - CharacterCount: rune count of Text, when zero
//   - ID: minted from the document ID, index and text, when empty
//   - PageNumber: 1, when zero
package ingest
