package matching

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/clausematch/core"
	"golang.org/x/sync/errgroup"
)

// Matcher compares chunked documents. A Matcher holds no per-comparison
// state and is safe for concurrent use; its worker pool bounds how many
// pairs of a batch run at once.
type Matcher struct {
	pool            *ants.Pool
	earlyExitWindow int
	logger          *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithPoolSize sets the worker pool size for batch comparisons.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Matcher) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		// Release old pool
		if m.pool != nil {
			m.pool.Release()
		}
		m.pool = pool
		return nil
	}
}

// WithEarlyExitWindow sets how many leading source chunks a directional pass
// inspects before giving up when none of them matched. Zero disables the
// early exit. Default is DefaultEarlyExitWindow.
func WithEarlyExitWindow(n int) Option {
	return func(m *Matcher) error {
		if n < 0 {
			n = 0
		}
		m.earlyExitWindow = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger.With("component", "matcher")
		return nil
	}
}

// NewMatcher creates a new matcher.
func NewMatcher(opts ...Option) (*Matcher, error) {
	poolSize := max(runtime.NumCPU(), 1)

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		pool:            pool,
		earlyExitWindow: DefaultEarlyExitWindow,
		logger:          slog.Default().With("component", "matcher"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}

	return m, nil
}

// Release releases the worker pool.
// The matcher should not be used for batches after calling Release.
func (m *Matcher) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// PairResult is the full outcome of comparing two documents.
type PairResult struct {
	// Matches is nil when the evidence gate rejected the pair.
	Matches  []core.ChunkMatch `json:"matches"`
	Evidence Evidence          `json:"evidence"`
	AToB     PassStats         `json:"aToB"`
	BToA     PassStats         `json:"bToA"`
}

// FindBidirectionalMatches returns the deduplicated matches between chunksA
// and chunksB, oriented as (chunk from A, chunk from B).
//
// A nil slice with a nil error means the pair lacks sufficient evidence and
// should be excluded from results. Errors are reserved for invalid input:
// embeddings of mismatched or zero length, or out-of-range options.
func (m *Matcher) FindBidirectionalMatches(ctx context.Context, chunksA, chunksB []core.Chunk, opts core.MatchingOptions) ([]core.ChunkMatch, error) {
	result, err := m.compareChunks(ctx, PairKey{}, chunksA, chunksB, opts, &noopMonitor{})
	if err != nil {
		return nil, err
	}
	return result.Matches, nil
}

// Compare matches two documents and returns the matches together with the
// evidence and pass statistics behind the verdict.
func (m *Matcher) Compare(ctx context.Context, a, b *core.Document, opts core.MatchingOptions) (*PairResult, error) {
	if a == nil || b == nil {
		return nil, ErrDocumentRequired
	}
	return m.compareChunks(ctx, PairKey{SourceID: a.ID, TargetID: b.ID}, a.Chunks, b.Chunks, opts, &noopMonitor{})
}

func (m *Matcher) compareChunks(
	ctx context.Context,
	key PairKey,
	chunksA, chunksB []core.Chunk,
	opts core.MatchingOptions,
	monitor Monitor,
) (*PairResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, err := core.CheckDimensions(chunksA, chunksB); err != nil {
		return nil, err
	}

	// The passes share only read-only inputs.
	var aToB, bToA *passResult
	var g errgroup.Group
	g.Go(func() error {
		var err error
		aToB, err = findBestMatches(chunksA, chunksB, opts, m.earlyExitWindow)
		return err
	})
	g.Go(func() error {
		var err error
		bToA, err = findBestMatches(chunksB, chunksA, opts, m.earlyExitWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("matching %s/%s: %w", key.SourceID, key.TargetID, err)
	}

	m.logPass(key, DirectionAToB, opts, aToB.stats)
	m.logPass(key, DirectionBToA, opts, bToA.stats)
	monitor.PassFinished(key, DirectionAToB, aToB.stats)
	monitor.PassFinished(key, DirectionBToA, bToA.stats)

	merged := mergeBidirectionalMatches(aToB.matches, bToA.matches)
	evidence := evaluateEvidence(merged, core.TotalCharacters(chunksA), core.TotalCharacters(chunksB))

	result := &PairResult{
		Evidence: evidence,
		AToB:     aToB.stats,
		BToA:     bToA.stats,
	}

	if !evidence.Sufficient {
		m.logger.Debug("insufficient evidence for similarity match",
			"source", key.SourceID,
			"target", key.TargetID,
			"matchCount", len(merged),
			"matchedCharacters", evidence.MatchedCharacters,
			"totalCharactersA", evidence.TotalCharactersA,
			"totalCharactersB", evidence.TotalCharactersB,
			"requiredCharacters", evidence.RequiredCharacters)
		return result, nil
	}

	result.Matches = merged
	return result, nil
}

func (m *Matcher) logPass(key PairKey, direction Direction, opts core.MatchingOptions, stats PassStats) {
	if stats.EarlyExit {
		m.logger.Debug("early exit: no matches found in initial chunk sample",
			"source", key.SourceID,
			"target", key.TargetID,
			"direction", direction.String(),
			"inspectedChunks", stats.SourceInspected)
	}
	if opts.LexicalFilterEnabled() && stats.JaccardFiltered > 0 {
		m.logger.Info("jaccard similarity filtering applied",
			"source", key.SourceID,
			"target", key.TargetID,
			"direction", direction.String(),
			"cosineThreshold", opts.PrimaryThreshold,
			"jaccardThreshold", opts.JaccardThreshold,
			"cosinePassed", stats.CosinePassed,
			"jaccardFiltered", stats.JaccardFiltered,
			"finalMatches", stats.Matches,
			"filterRate", fmt.Sprintf("%.1f%%", stats.FilterRate()))
	}
}
