package matching

import (
	"context"
	"sync"

	"github.com/poiesic/clausematch/core"
)

// PairKey identifies a (source document, target document) comparison.
type PairKey struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// Outcome classifies how a comparison ended.
type Outcome int

const (
	// OutcomeMatched means the pair cleared the evidence gate.
	OutcomeMatched Outcome = iota
	// OutcomeRejected means the pair had insufficient evidence.
	OutcomeRejected
	// OutcomeFailed means the comparison returned an error.
	OutcomeFailed
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BatchResult reports every pair of a batch exactly once, in one of three
// places.
type BatchResult struct {
	// Matches maps source document ID to target document ID to the pair's
	// matches. Rejected and failed pairs have no entry.
	Matches map[string]map[string][]core.ChunkMatch
	// Rejected lists pairs that failed the evidence gate, in submission order.
	Rejected []PairKey
	// Failed holds the error of every pair whose comparison failed.
	Failed map[PairKey]error
}

// MatchedPairs returns the number of pairs with matches.
func (r *BatchResult) MatchedPairs() int {
	n := 0
	for _, targets := range r.Matches {
		n += len(targets)
	}
	return n
}

// pairSlot receives the outcome of one pair. Each worker writes only its own
// slot, so no locking is needed before the join.
type pairSlot struct {
	key    PairKey
	result *PairResult
	err    error
}

// BatchFindMatches compares every source document with every target document.
func (m *Matcher) BatchFindMatches(ctx context.Context, sources, targets []*core.Document, opts core.MatchingOptions) (*BatchResult, error) {
	return m.BatchFindMatchesWithMonitor(ctx, sources, targets, opts, nil)
}

// BatchFindMatchesWithMonitor compares every source document with every
// target document on the matcher's worker pool, reporting progress to
// monitor.
//
// A failing pair never affects other pairs; its error is recorded in
// BatchResult.Failed. If ctx is done before all pairs finish, the batch is
// abandoned and ctx.Err() is returned; comparisons already running finish in
// the background and their results are discarded.
func (m *Matcher) BatchFindMatchesWithMonitor(
	ctx context.Context,
	sources, targets []*core.Document,
	opts core.MatchingOptions,
	monitor Monitor,
) (*BatchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.pool == nil || m.pool.IsClosed() {
		return nil, ErrMatcherReleased
	}
	for _, doc := range sources {
		if doc == nil {
			return nil, ErrDocumentRequired
		}
	}
	for _, doc := range targets {
		if doc == nil {
			return nil, ErrDocumentRequired
		}
	}

	slots := make([]pairSlot, 0, len(sources)*len(targets))
	for _, src := range sources {
		for _, tgt := range targets {
			slots = append(slots, pairSlot{key: PairKey{SourceID: src.ID, TargetID: tgt.ID}})
		}
	}
	monitor.Start(len(slots))

	var wg sync.WaitGroup
	idx := 0
submit:
	for _, src := range sources {
		for _, tgt := range targets {
			if ctx.Err() != nil {
				break submit
			}

			slot := &slots[idx]
			idx++
			a, b := src, tgt

			wg.Add(1)
			err := m.pool.Submit(func() {
				defer wg.Done()
				slot.result, slot.err = m.compareChunks(ctx, slot.key, a.Chunks, b.Chunks, opts, monitor)
				monitor.PairFinished(slot.key, slotOutcome(slot), slotEvidence(slot))
			})
			if err != nil {
				wg.Done()
				slot.err = err
				monitor.PairFinished(slot.key, OutcomeFailed, Evidence{})
			}
		}
	}

	if idx < len(slots) {
		m.logger.Warn("batch abandoned", "pairs", len(slots), "submitted", idx, "err", ctx.Err())
		return nil, ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		m.logger.Warn("batch abandoned", "pairs", len(slots), "err", ctx.Err())
		return nil, ctx.Err()
	case <-done:
	}

	result := assembleBatch(slots)
	m.logger.Debug("batch finished",
		"pairs", len(slots),
		"matched", result.MatchedPairs(),
		"rejected", len(result.Rejected),
		"failed", len(result.Failed))
	monitor.Finish(result)
	return result, nil
}

func slotOutcome(slot *pairSlot) Outcome {
	switch {
	case slot.err != nil:
		return OutcomeFailed
	case slot.result == nil || slot.result.Matches == nil:
		return OutcomeRejected
	default:
		return OutcomeMatched
	}
}

func slotEvidence(slot *pairSlot) Evidence {
	if slot.result == nil {
		return Evidence{}
	}
	return slot.result.Evidence
}

// assembleBatch folds per-pair slots into a BatchResult after the join.
func assembleBatch(slots []pairSlot) *BatchResult {
	result := &BatchResult{
		Matches: make(map[string]map[string][]core.ChunkMatch),
		Failed:  make(map[PairKey]error),
	}

	for i := range slots {
		slot := &slots[i]
		switch slotOutcome(slot) {
		case OutcomeFailed:
			result.Failed[slot.key] = slot.err
		case OutcomeRejected:
			result.Rejected = append(result.Rejected, slot.key)
		case OutcomeMatched:
			targets, ok := result.Matches[slot.key.SourceID]
			if !ok {
				targets = make(map[string][]core.ChunkMatch)
				result.Matches[slot.key.SourceID] = targets
			}
			targets[slot.key.TargetID] = slot.result.Matches
		}
	}

	return result
}
