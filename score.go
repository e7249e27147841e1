package fhirquality

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Score converts a (checks performed, checks passed) pair into a quality
// score between 0 and 100, rounded to two decimal places. A run with no
// checks scores 0.0 by definition.
//
// No other component computes or adjusts this value.
func Score(performed, passed int) float64 {
	if performed <= 0 {
		return 0.0
	}
	score := decimal.NewFromInt(int64(passed)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(performed))).
		Round(2)
	f, _ := score.Float64()
	return f
}
