package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "case and punctuation are ignored",
			text: "The Borrower shall, within 30 days; REPAY.",
			want: []string{"the", "borrower", "shall", "within", "30", "days", "repay"},
		},
		{
			name: "only punctuation",
			text: "--- ... !!!",
			want: []string{},
		},
		{
			name: "unicode letters",
			text: "Überweisung ÜBERWEISUNG",
			want: []string{"überweisung", "überweisung"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{
			name:     "identical text",
			a:        "governing law of the state",
			b:        "governing law of the state",
			expected: 1.0,
		},
		{
			name:     "case and punctuation insensitive",
			a:        "Governing Law.",
			b:        "governing, law",
			expected: 1.0,
		},
		{
			name:     "duplicates collapse into a set",
			a:        "law law law",
			b:        "law",
			expected: 1.0,
		},
		{
			name:     "partial overlap",
			a:        "alpha beta gamma",
			b:        "beta gamma delta",
			expected: 2.0 / 4.0,
		},
		{
			name:     "disjoint",
			a:        "alpha beta",
			b:        "gamma delta",
			expected: 0,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 0,
		},
		{
			name:     "one empty",
			a:        "alpha",
			b:        "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Jaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a := "The Lender may assign its rights under this Agreement."
	b := "The Borrower may not assign its rights without consent."
	assert.Equal(t, Jaccard(a, b), Jaccard(b, a))
}
