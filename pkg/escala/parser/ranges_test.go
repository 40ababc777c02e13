package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeAt(t *testing.T) {
	r, err := RangeAt("A2", 3, 40)
	require.NoError(t, err)
	assert.Equal(t, Range{R1: 2, C1: 1, R2: 4, C2: 40}, r)
	assert.Equal(t, "A2:AN4", r.String())

	r, err = RangeAt("$B$5", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "B5:B5", r.String())

	_, err = RangeAt("nope", 1, 1)
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("$A$1:$D$10")
	require.NoError(t, err)
	assert.Equal(t, Range{R1: 1, C1: 1, R2: 10, C2: 4}, r)

	_, err = ParseRange("A1")
	assert.Error(t, err)
}

func TestReference(t *testing.T) {
	tests := []struct {
		sheet    string
		expected string
	}{
		{"ESCALA", "'ESCALA'!A2:C3"},
		{"DIM 01/10", "'DIM 01/10'!A2:C3"},
		{"Ana's", "'Ana''s'!A2:C3"},
	}
	r := Range{R1: 2, C1: 1, R2: 3, C2: 3}
	for _, tt := range tests {
		ref := Reference(tt.sheet, r)
		assert.Equal(t, tt.expected, ref)

		sheet, rng := SplitReference(ref)
		assert.Equal(t, tt.sheet, sheet)
		assert.Equal(t, "A2:C3", rng)
	}

	sheet, rng := SplitReference("A1:B2")
	assert.Equal(t, "", sheet)
	assert.Equal(t, "A1:B2", rng)
}
