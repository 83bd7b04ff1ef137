// Package core provides the record model and input parsing utilities.
//
// This file contains functions for parsing user-entered amounts, rates and
// tenures. Parsing goes through shopspring/decimal so that "0.1" style input
// is read exactly before it is handed to the float calculators.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for empty input, signs, or malformed numbers.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.InexactFloat64(), nil
}

// ParseOptionalAmount is ParseAmount for optional fields: empty input is nil.
func ParseOptionalAmount(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseRate parses a percentage from the leading number of s, so "5%"
// reads as 5. Input without a leading number yields 0.
func ParseRate(s string) float64 {
	lead := leadingFloat.FindString(normalizeNumber(s))
	if lead == "" {
		return 0
	}
	d, err := decimal.NewFromString(lead)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParseTenure parses a loan tenure in months from the leading whole number
// of s, so "24 months" reads as 24 and "6.7" as 6. Input without a leading
// number, or a leading zero value, yields DefaultTenureMonths. Values too
// large for an int saturate and are rejected later by Loan.Validate.
func ParseTenure(s string) int {
	lead := leadingInt.FindString(normalizeNumber(s))
	if lead == "" {
		return DefaultTenureMonths
	}
	n, err := strconv.Atoi(lead)
	if err != nil {
		if strings.HasPrefix(lead, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if n == 0 {
		return DefaultTenureMonths
	}
	return n
}

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

func parseDecimal(s string) (decimal.Decimal, error) {
	s = normalizeNumber(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	// Normalize decimal comma to dot
	return strings.ReplaceAll(s, ",", ".")
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
