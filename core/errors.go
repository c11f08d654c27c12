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

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyChunkID indicates the chunk ID field is empty.
	ErrEmptyChunkID = errors.New("chunk id cannot be empty")

	// ErrEmptyDocumentID indicates the document ID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrDuplicateChunkID indicates two chunks of one document share an ID.
	ErrDuplicateChunkID = errors.New("duplicate chunk id")

	// ErrEmptyEmbedding indicates a chunk has no embedding vector.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrInvalidEmbedding indicates an embedding holds NaN or infinite
	// components.
	ErrInvalidEmbedding = errors.New("embedding has non-finite values")

	// ErrDimensionMismatch indicates embeddings of different lengths were
	// compared.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidOptions indicates MatchingOptions with out-of-range thresholds.
	ErrInvalidOptions = errors.New("invalid matching options")

	// ErrCorruptRecord indicates encoded record bytes could not be decoded.
	ErrCorruptRecord = errors.New("corrupt record")
)
