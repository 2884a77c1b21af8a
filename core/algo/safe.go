package algo

import "math"

// SafeDivide returns num/den, or fallback when den is zero or not finite
// or when the quotient itself is not finite.
func SafeDivide(num, den, fallback float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
		return fallback
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fallback
	}
	return q
}

// SafeDivideOpt is SafeDivide for optional operands. A nil operand yields fallback.
func SafeDivideOpt(num, den *float64, fallback float64) float64 {
	if num == nil || den == nil {
		return fallback
	}
	return SafeDivide(*num, *den, fallback)
}
