package controllers

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatPrice renders price with two decimals, rounding exact ties away from zero
// like JavaScript's toFixed(2) does (0.125 becomes "0.13", not "0.12").
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return strconv.FormatFloat(price, 'f', -1, 64)
	}

	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}

	scaled := new(big.Float).SetPrec(256).SetFloat64(price)
	scaled.Mul(scaled, big.NewFloat(100))
	scaled.Add(scaled, big.NewFloat(0.5))
	cents, _ := scaled.Int(nil)

	digits := cents.String()
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
