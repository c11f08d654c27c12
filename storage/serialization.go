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

package storage

import (
	"fmt"

	"github.com/poiesic/clausematch/core"
)

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, n, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: chunk has %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &chunk, nil
}

// MarshalDocumentInfo serializes a DocumentInfo to bytes.
func MarshalDocumentInfo(info *core.DocumentInfo) []byte {
	buf := make([]byte, core.DocumentInfoMUS.Size(*info))
	core.DocumentInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalDocumentInfo deserializes a DocumentInfo from bytes.
func UnmarshalDocumentInfo(data []byte) (*core.DocumentInfo, error) {
	info, n, err := core.DocumentInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document info: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: document info has %d trailing bytes", ErrSerializationFailed, len(data)-n)
	}
	return &info, nil
}
