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

import (
	"fmt"
	"math"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Index and CharacterCount must not be negative
//   - PageNumber must be 1 or greater
//   - Embedding must not be empty and every component must be finite
//
// NOT validated:
//   - Text (optional, only used by lexical filtering)
//   - Embedding norm (normalization is the producer's job)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkID)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: chunk %s has negative index %d", ErrInvalidChunk, chunk.ID, chunk.Index)
	}

	if chunk.PageNumber < 1 {
		return fmt.Errorf("%w: chunk %s has page number %d", ErrInvalidChunk, chunk.ID, chunk.PageNumber)
	}

	if chunk.CharacterCount < 0 {
		return fmt.Errorf("%w: chunk %s has negative character count %d", ErrInvalidChunk, chunk.ID, chunk.CharacterCount)
	}

	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("%w: chunk %s: %w", ErrInvalidChunk, chunk.ID, ErrEmptyEmbedding)
	}

	if i, ok := firstNonFinite(chunk.Embedding); ok {
		return fmt.Errorf("%w: chunk %s: %w at component %d", ErrInvalidChunk, chunk.ID, ErrInvalidEmbedding, i)
	}

	return nil
}

// firstNonFinite returns the index of the first NaN or infinite component.
func firstNonFinite(v []float32) (int, bool) {
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i, true
		}
	}
	return 0, false
}

// ValidateDocument validates a Document and all of its chunks.
// Chunk IDs must be unique and all embeddings must share one dimensionality.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	seen := make(map[string]struct{}, len(doc.Chunks))
	for i := range doc.Chunks {
		chunk := &doc.Chunks[i]
		if err := ValidateChunk(chunk); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, doc.ID, err)
		}
		if _, ok := seen[chunk.ID]; ok {
			return fmt.Errorf("%w: %s: %w: %s", ErrInvalidDocument, doc.ID, ErrDuplicateChunkID, chunk.ID)
		}
		seen[chunk.ID] = struct{}{}
	}

	if _, err := CheckDimensions(doc.Chunks); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, doc.ID, err)
	}

	return nil
}

// CheckDimensions verifies that every chunk in every set carries a non-empty,
// finite embedding of the same length, and returns that length. Empty sets are
// allowed; if all sets are empty the dimensionality is 0.
func CheckDimensions(sets ...[]Chunk) (int, error) {
	dims := 0
	for _, chunks := range sets {
		for i := range chunks {
			n := len(chunks[i].Embedding)
			if n == 0 {
				return 0, fmt.Errorf("%w: chunk %s", ErrEmptyEmbedding, chunks[i].ID)
			}
			if j, bad := firstNonFinite(chunks[i].Embedding); bad {
				return 0, fmt.Errorf("%w: chunk %s at component %d", ErrInvalidEmbedding, chunks[i].ID, j)
			}
			if dims == 0 {
				dims = n
				continue
			}
			if n != dims {
				return 0, fmt.Errorf("%w: chunk %s has %d dimensions, expected %d",
					ErrDimensionMismatch, chunks[i].ID, n, dims)
			}
		}
	}
	return dims, nil
}
