package grading

type letterThreshold struct {
	min    float64
	letter string
}

// letterScale is ordered from the highest threshold down; bounds are inclusive.
var letterScale = [...]letterThreshold{
	{min: 90, letter: "A"},
	{min: 75, letter: "B"},
	{min: 60, letter: "C"},
	{min: 50, letter: "D"},
}

const failingLetter = "F"

// Letter maps a total score onto the fixed letter grade scale.
func Letter(score float64) string {
	for _, threshold := range letterScale {
		if score >= threshold.min {
			return threshold.letter
		}
	}
	return failingLetter
}
