package finance

// ExpectedReturn is the absolute return of amount at returnPercent percent.
func ExpectedReturn(amount, returnPercent float64) float64 {
	return amount * returnPercent / 100
}
