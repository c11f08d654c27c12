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


// Package matching finds reused text between two chunked documents.
//
// A comparison runs two directional passes concurrently. Each pass selects,
// for every source chunk, the single best target chunk that clears the
// cosine threshold and (when enabled) the lexical Jaccard threshold, with
// near-equal scores broken by page proximity. The two passes are merged,
// exact duplicate pairs are dropped, and the result is reported only when
// the matched text clears the evidence gate:
//
//	matched >= max(1600, ceil(0.05 * min(totalA, totalB)))
//
// A comparison that fails the gate returns a nil match list and no error.
// Batches fan comparisons out over a bounded worker pool and report matched,
// rejected and failed pairs separately.
package matching
