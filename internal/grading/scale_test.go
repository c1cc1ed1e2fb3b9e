package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLetterBoundaries(t *testing.T) {
	cases := []struct {
		score  float64
		letter string
	}{
		{100, "A"},
		{90, "A"},
		{89.99, "B"},
		{75, "B"},
		{74.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
		{-3.5, "F"},
		{140, "A"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.letter, Letter(tc.score), "score %v", tc.score)
	}
}

func TestRound2(t *testing.T) {
	require.Equal(t, 2.67, Round2(4*(2.0/3.0)))
	require.Equal(t, 4.67, Round2(2.0+2.67))
	require.Equal(t, 2.67, Round2(2.675), "2.675 is stored just below the midpoint")
	require.Equal(t, 0.12, Round2(0.125), "exact midpoints round to even")
	require.Equal(t, 0.38, Round2(0.375))
	require.Equal(t, 0.0, Round2(0))
	require.Equal(t, 1.0, Round2(0.999))
}
