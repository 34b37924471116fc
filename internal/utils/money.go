package utils

import (
	"fmt"
	"math"
)

// RoundMoney rounds to 2 decimal places. Intermediate pricing math stays
// unrounded; only persisted or returned amounts pass through here.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
