package core

import "fmt"

const (
	// DefaultPrimaryThreshold is the default cosine cutoff.
	DefaultPrimaryThreshold = 0.90

	// DefaultJaccardThreshold is the default lexical overlap cutoff.
	DefaultJaccardThreshold = 0.60
)

// MatchingOptions configures a single comparison.
type MatchingOptions struct {
	// PrimaryThreshold is the minimum cosine similarity for a candidate pair.
	PrimaryThreshold float64 `yaml:"primary_threshold" json:"primaryThreshold"`

	// JaccardThreshold is the minimum token-set overlap for a candidate pair
	// whose chunks both carry text. Zero disables lexical filtering.
	JaccardThreshold float64 `yaml:"jaccard_threshold" json:"jaccardThreshold"`
}

// MatchingOption is a functional option for building MatchingOptions.
type MatchingOption func(*MatchingOptions)

// WithPrimaryThreshold sets the cosine cutoff.
func WithPrimaryThreshold(threshold float64) MatchingOption {
	return func(o *MatchingOptions) {
		o.PrimaryThreshold = threshold
	}
}

// WithJaccardThreshold sets the lexical cutoff. Zero disables lexical filtering.
func WithJaccardThreshold(threshold float64) MatchingOption {
	return func(o *MatchingOptions) {
		o.JaccardThreshold = threshold
	}
}

// WithoutLexicalFilter disables Jaccard filtering.
func WithoutLexicalFilter() MatchingOption {
	return WithJaccardThreshold(0)
}

// DefaultMatchingOptions returns the 0.90 cosine / 0.60 Jaccard defaults.
func DefaultMatchingOptions() MatchingOptions {
	return MatchingOptions{
		PrimaryThreshold: DefaultPrimaryThreshold,
		JaccardThreshold: DefaultJaccardThreshold,
	}
}

// NewMatchingOptions applies opts over the defaults.
func NewMatchingOptions(opts ...MatchingOption) MatchingOptions {
	o := DefaultMatchingOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaults returns a copy with the zero value replaced by defaults.
// A zero MatchingOptions becomes DefaultMatchingOptions. Otherwise only an
// unset PrimaryThreshold is filled; a zero JaccardThreshold is kept and
// disables lexical filtering.
//
// The two fields are not symmetric. MatchingOptions{PrimaryThreshold: 0.95}
// runs without the Jaccard filter, while MatchingOptions{JaccardThreshold: 0.7}
// gets the 0.90 cosine default. To change one threshold and keep the other
// default, start from DefaultMatchingOptions or NewMatchingOptions.
func (o MatchingOptions) WithDefaults() MatchingOptions {
	if o == (MatchingOptions{}) {
		return DefaultMatchingOptions()
	}
	if o.PrimaryThreshold == 0 {
		o.PrimaryThreshold = DefaultPrimaryThreshold
	}
	return o
}

// LexicalFilterEnabled reports whether Jaccard filtering applies.
func (o MatchingOptions) LexicalFilterEnabled() bool {
	return o.JaccardThreshold > 0
}

// Validate checks that both thresholds are within their score ranges.
func (o MatchingOptions) Validate() error {
	if o.PrimaryThreshold < -1 || o.PrimaryThreshold > 1 {
		return fmt.Errorf("%w: primary threshold %v outside [-1, 1]", ErrInvalidOptions, o.PrimaryThreshold)
	}
	if o.JaccardThreshold < 0 || o.JaccardThreshold > 1 {
		return fmt.Errorf("%w: jaccard threshold %v outside [0, 1]", ErrInvalidOptions, o.JaccardThreshold)
	}
	return nil
}
