// Package finance holds the closed-form calculations used by the dashboard
// pages. Everything here is a pure function over float64 inputs: no I/O, no
// state, no rounding unless stated. Out-of-domain input (negative terms, NaN)
// yields whatever IEEE-754 arithmetic yields; callers validate first.
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// MonthlyPayment returns the level payment (EMI) of an amortizing loan.
//
// A zero term yields 0. A zero rate yields straight-line principal/term.
// Otherwise the standard annuity formula is applied:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if termMonths == 0 {
		return 0
	}
	r := MonthlyRate(annualRatePercent)
	n := float64(termMonths)
	if r == 0 {
		return principal / n
	}
	factor := math.Pow(1+r, n)
	return principal * r * factor / (factor - 1)
}

// TotalPayable is the sum of all level payments over the term.
func TotalPayable(principal, annualRatePercent float64, termMonths int) float64 {
	return MonthlyPayment(principal, annualRatePercent, termMonths) * float64(termMonths)
}

// TotalInterest is TotalPayable minus the principal.
func TotalInterest(principal, annualRatePercent float64, termMonths int) float64 {
	return TotalPayable(principal, annualRatePercent, termMonths) - principal
}

// ScheduleEntry is one period of an amortization schedule, in cents
// precision. Amounts encode to JSON as decimal strings.
type ScheduleEntry struct {
	Period    int             `json:"period"`
	DueDate   time.Time       `json:"due_date"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// MaxScheduleMonths is the longest schedule Schedule will build.
const MaxScheduleMonths = 600

// Schedule splits each level payment into interest and principal.
//
// Payments and interest are rounded to cents. The last period repays the
// remaining balance exactly, absorbing rounding drift, so the final Balance
// is zero. Returns nil for a non-positive term or principal, a term above
// MaxScheduleMonths, or a payment that is not finite.
func Schedule(principal, annualRatePercent float64, termMonths int, start time.Time) []ScheduleEntry {
	if termMonths <= 0 || termMonths > MaxScheduleMonths || !(principal > 0) || math.IsInf(principal, 0) {
		return nil
	}
	emi := MonthlyPayment(principal, annualRatePercent, termMonths)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return nil
	}

	payment := decimal.NewFromFloat(emi).Round(2)
	rate := decimal.NewFromFloat(MonthlyRate(annualRatePercent))
	remaining := decimal.NewFromFloat(principal)

	out := make([]ScheduleEntry, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)
		due := payment

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
			due = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		out = append(out, ScheduleEntry{
			Period:    period,
			DueDate:   start.AddDate(0, period, 0),
			Payment:   due,
			Interest:  interest,
			Principal: principalPart,
			Balance:   remaining,
		})
		if remaining.IsZero() {
			break
		}
	}
	return out
}
