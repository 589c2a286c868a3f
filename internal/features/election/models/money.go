package models

import "math"

// MoneyEpsilon is the tolerance for comparing monetary amounts after
// rounding to cents.
const MoneyEpsilon = 0.005

// RoundMoney rounds a non-negative amount to 2 decimal places using
// round-half-up (0.005 rounds to 0.01).
func RoundMoney(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// MoneyEquals compares two amounts within rounding tolerance.
func MoneyEquals(a, b float64) bool {
	return math.Abs(a-b) < MoneyEpsilon
}
