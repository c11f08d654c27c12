package main

import (
	"io"
	"log/slog"

	"github.com/poiesic/clausematch/ingest"
	"github.com/poiesic/clausematch/matching"
)

// progressMonitor reports batch progress in pairs.
type progressMonitor struct {
	writer  io.Writer
	tracker *ingest.ProgressTracker
}

var _ matching.Monitor = (*progressMonitor)(nil)

func newProgressMonitor(w io.Writer) *progressMonitor {
	return &progressMonitor{writer: w}
}

// Start runs before any pair is submitted.
func (p *progressMonitor) Start(pairs int) {
	p.tracker = ingest.NewProgressTracker(p.writer, pairs, 1).WithUnit("pairs")
	p.tracker.Start()
}

func (p *progressMonitor) PassFinished(_ matching.PairKey, _ matching.Direction, _ matching.PassStats) {}

func (p *progressMonitor) PairFinished(key matching.PairKey, outcome matching.Outcome, _ matching.Evidence) {
	if outcome == matching.OutcomeFailed {
		slog.Debug("pair failed", "source", key.SourceID, "target", key.TargetID)
	}
	p.tracker.Increment(1)
}

func (p *progressMonitor) Finish(_ *matching.BatchResult) {
	p.tracker.Finish()
}
