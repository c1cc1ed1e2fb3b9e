package grading

import "strconv"

// Round2 rounds to two decimal places, half to even on the exact binary value.
// Scores are stored with this rounding, so totals computed here must match it bit for bit.
func Round2(value float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 2, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
