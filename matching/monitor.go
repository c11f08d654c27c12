package matching

// Monitor provides hooks to observe comparisons.
// Hooks may be called concurrently from worker goroutines, so
// implementations must be safe for concurrent use.
type Monitor interface {
	Start(pairs int)
	PassFinished(key PairKey, direction Direction, stats PassStats)
	PairFinished(key PairKey, outcome Outcome, evidence Evidence)
	Finish(result *BatchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ int)                                      {}
func (n *noopMonitor) PassFinished(_ PairKey, _ Direction, _ PassStats) {}
func (n *noopMonitor) PairFinished(_ PairKey, _ Outcome, _ Evidence)    {}
func (n *noopMonitor) Finish(_ *BatchResult)                            {}
