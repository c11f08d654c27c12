package similarity

import (
	"fmt"

	"github.com/poiesic/clausematch/core"
)

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared. It wraps core.ErrDimensionMismatch so callers can match either.
var ErrDimensionMismatch = fmt.Errorf("similarity: %w", core.ErrDimensionMismatch)
