package finance

import "sort"

// Portfolio is the combined total across categories and each category's share.
type Portfolio struct {
	Total  float64            `json:"total"`
	Totals map[string]float64 `json:"totals"`
	Shares map[string]int     `json:"shares"`
}

// Aggregate sums category totals and computes whole-percent shares.
//
// Every input category appears in Shares, including zero-valued ones. When
// the total is zero every share is 0. Shares are rounded half-up, so they
// are not guaranteed to sum to exactly 100.
func Aggregate(categoryTotals map[string]float64) Portfolio {
	p := Portfolio{
		Totals: make(map[string]float64, len(categoryTotals)),
		Shares: make(map[string]int, len(categoryTotals)),
	}
	for name, v := range categoryTotals {
		p.Totals[name] = v
		p.Total += v
	}
	for name, v := range categoryTotals {
		if p.Total == 0 {
			p.Shares[name] = 0
			continue
		}
		p.Shares[name] = RoundHalfUp(v / p.Total * 100)
	}
	return p
}

// Categories returns the category names in sorted order.
func (p Portfolio) Categories() []string {
	names := make([]string, 0, len(p.Totals))
	for name := range p.Totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
