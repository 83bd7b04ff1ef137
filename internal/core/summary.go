package core

import "time"

// Portfolio category names used by the visualization view.
const (
	CategoryInvestments = "investments"
	CategoryLoans       = "loans"
	CategoryCapex       = "capex"
	CategoryVouchers    = "vouchers"
)

// PortfolioCategories lists the categories in display order.
var PortfolioCategories = []string{CategoryInvestments, CategoryLoans, CategoryCapex, CategoryVouchers}

// Record event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PortfolioSnapshot is a point-in-time copy of a user's portfolio view,
// exported after a record change.
type PortfolioSnapshot struct {
	TakenAt time.Time
	UserID  string
	Trigger string // e.g. "loan created"
	Total   float64
	Totals  map[string]float64
	Shares  map[string]int
}
