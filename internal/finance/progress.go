package finance

import "math"

// Progress describes how far a savings plan is towards its target.
//
// RawPercent is unclamped and backs the "% complete" text (see
// RoundedPercent). ClampedPercent is bounded to [0, 100] and backs the
// progress bar width. Remaining may be negative when a plan is overfunded.
type Progress struct {
	RawPercent     float64 `json:"raw_percent"`
	ClampedPercent float64 `json:"clamped_percent"`
	Remaining      float64 `json:"remaining"`
}

// PlanProgress computes progress of current towards target.
// A zero target yields 0 percent rather than NaN or Inf.
func PlanProgress(target, current float64) Progress {
	p := Progress{Remaining: target - current}
	if target != 0 {
		p.RawPercent = current / target * 100
	}
	p.ClampedPercent = math.Max(0, math.Min(p.RawPercent, 100))
	return p
}

// RoundedPercent is RawPercent rounded half-up to a whole percent.
func (p Progress) RoundedPercent() int {
	return RoundHalfUp(p.RawPercent)
}

// RoundHalfUp rounds to the nearest integer, ties towards +Inf.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
