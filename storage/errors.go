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

import "errors"

// Errors returned by the document store.
var (
	// ErrNotFound indicates no document or chunk is stored under the key.
	ErrNotFound = errors.New("document not found")

	// ErrStorageClosed indicates the store was used after Close.
	ErrStorageClosed = errors.New("document store is closed")

	// ErrInvalidQuery indicates a lookup with a missing document or chunk ID.
	ErrInvalidQuery = errors.New("invalid document lookup")

	// ErrSerializationFailed indicates a document or chunk record could not
	// be encoded or decoded.
	ErrSerializationFailed = errors.New("record encoding failed")

	// ErrTruncatedData indicates a stored record ended before all of its
	// fields were read.
	ErrTruncatedData = errors.New("stored record is truncated")
)
