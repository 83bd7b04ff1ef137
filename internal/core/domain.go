package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Kind names a record collection.
type Kind string

const (
	KindVoucher    Kind = "voucher"
	KindCrop       Kind = "crop"
	KindCapex      Kind = "capex"
	KindInvestment Kind = "investment"
	KindLoan       Kind = "loan"
	KindPlan       Kind = "plan"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	CropGrowing   = "growing"
	CropHarvested = "harvested"
	CropPlanning  = "planning"

	CapexPending   = "pending"
	CapexApproved  = "approved"
	CapexCompleted = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	// DefaultTenureMonths is used when a loan tenure cannot be parsed.
	DefaultTenureMonths = 12
	// MaxTenureMonths is fifty years.
	MaxTenureMonths = 600
	// MaxRatePercent bounds annual loan rates and investment returns.
	MaxRatePercent = 100

	maxNameLength = 200
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrEmptyName       = errors.New("empty name")
	ErrNameTooLong     = errors.New("name too long (max 200 characters)")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidRate     = errors.New("invalid rate")
	ErrInvalidTenure   = errors.New("invalid tenure")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrMissingOwner    = errors.New("record has no owner")
)

// Date is a calendar day. The zero value means "not set".
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date is not set.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is implemented by every user-owned collection entry.
type Record interface {
	Kind() Kind
	RecordID() string
	OwnerID() string
	Validate() error
}

type (
	Voucher struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		VoucherNumber string    `json:"voucher_number"`
		Amount        float64   `json:"amount"`
		Description   string    `json:"description"`
		Status        string    `json:"status"`
		CreatedAt     time.Time `json:"created_at"`
	}

	Crop struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		CropName    string    `json:"crop_name"`
		AreaPlanted *float64  `json:"area_planted"` // acres
		Yield       *float64  `json:"yield"`
		HarvestDate Date      `json:"harvest_date"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"created_at"`
	}

	CapexItem struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id"`
		ItemName  string    `json:"item_name"`
		Amount    float64   `json:"amount"`
		Category  string    `json:"category"`
		Status    string    `json:"status"`
		Date      Date      `json:"date"`
		CreatedAt time.Time `json:"created_at"`
	}

	Investment struct {
		ID               string    `json:"id"`
		UserID           string    `json:"user_id"`
		InvestmentName   string    `json:"investment_name"`
		Amount           float64   `json:"amount"`
		ReturnPercentage float64   `json:"return_percentage"`
		Status           string    `json:"status"`
		StartDate        Date      `json:"start_date"`
		CreatedAt        time.Time `json:"created_at"`
	}

	Loan struct {
		ID              string    `json:"id"`
		UserID          string    `json:"user_id"`
		LoanName        string    `json:"loan_name"`
		PrincipalAmount float64   `json:"principal_amount"`
		InterestRate    float64   `json:"interest_rate"` // annual percent
		TenureMonths    int       `json:"tenure_months"`
		Status          string    `json:"status"`
		StartDate       Date      `json:"start_date"`
		CreatedAt       time.Time `json:"created_at"`
	}

	Plan struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		PlanName      string    `json:"plan_name"`
		Category      string    `json:"category"`
		TargetAmount  float64   `json:"target_amount"`
		CurrentAmount float64   `json:"current_amount"`
		Deadline      Date      `json:"deadline"`
		Priority      string    `json:"priority"`
		CreatedAt     time.Time `json:"created_at"`
	}

	// DashboardMetric is a per-user display snapshot. It is seeded once and
	// never recomputed from the other collections.
	DashboardMetric struct {
		ID              string `json:"id"`
		UserID          string `json:"user_id"`
		WatchesSold     int64  `json:"watches_sold"`
		OpenOrders      int64  `json:"open_orders"`
		CapexAmount     int64  `json:"capex_amount"`
		ThisWeekMetric  int64  `json:"this_week_metric"`
		ThisMonthMetric int64  `json:"this_month_metric"`
	}
)

// SeedDashboardMetric returns the snapshot created for a user on first read.
func SeedDashboardMetric(id, userID string) DashboardMetric {
	return DashboardMetric{
		ID:              id,
		UserID:          userID,
		WatchesSold:     1240,
		OpenOrders:      145,
		CapexAmount:     52000,
		ThisWeekMetric:  8500,
		ThisMonthMetric: 32000,
	}
}

// CapexCategories are the categories offered by the capex form.
var CapexCategories = []string{"Equipment", "Infrastructure", "Technology", "Vehicles", "Other"}

// PlanCategories are the categories offered by the planning form.
var PlanCategories = []string{"Savings", "Investment", "Property", "Education", "Travel", "Other"}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyName
	}
	if len(s) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateOwner(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingOwner
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !isNaNOrInf(v)
}

func (v Voucher) Kind() Kind       { return KindVoucher }
func (v Voucher) RecordID() string { return v.ID }
func (v Voucher) OwnerID() string  { return v.UserID }

func (v Voucher) Validate() error {
	if err := validateOwner(v.UserID); err != nil {
		return err
	}
	if err := validateName(v.VoucherNumber); err != nil {
		return err
	}
	if !nonNegative(v.Amount) {
		return ErrInvalidAmount
	}
	if v.Status != StatusActive {
		return ErrInvalidStatus
	}
	return nil
}

// Stamp fills identity and creation-time defaults.
func (v Voucher) Stamp(id, userID string, now time.Time) Voucher {
	v.ID, v.UserID, v.CreatedAt = id, userID, now
	v.Status = StatusActive
	return v
}

func (c Crop) Kind() Kind       { return KindCrop }
func (c Crop) RecordID() string { return c.ID }
func (c Crop) OwnerID() string  { return c.UserID }

func (c Crop) Validate() error {
	if err := validateOwner(c.UserID); err != nil {
		return err
	}
	if err := validateName(c.CropName); err != nil {
		return err
	}
	if c.AreaPlanted != nil && !nonNegative(*c.AreaPlanted) {
		return ErrInvalidAmount
	}
	if c.Yield != nil && !nonNegative(*c.Yield) {
		return ErrInvalidAmount
	}
	// Status is a free string in practice; only emptiness is rejected.
	if strings.TrimSpace(c.Status) == "" {
		return ErrInvalidStatus
	}
	return nil
}

func (c Crop) Stamp(id, userID string, now time.Time) Crop {
	c.ID, c.UserID, c.CreatedAt = id, userID, now
	if strings.TrimSpace(c.Status) == "" {
		c.Status = CropGrowing
	}
	return c
}

func (c CapexItem) Kind() Kind       { return KindCapex }
func (c CapexItem) RecordID() string { return c.ID }
func (c CapexItem) OwnerID() string  { return c.UserID }

func (c CapexItem) Validate() error {
	if err := validateOwner(c.UserID); err != nil {
		return err
	}
	if err := validateName(c.ItemName); err != nil {
		return err
	}
	if !nonNegative(c.Amount) {
		return ErrInvalidAmount
	}
	switch c.Status {
	case CapexPending, CapexApproved, CapexCompleted:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func (c CapexItem) Stamp(id, userID string, now time.Time) CapexItem {
	c.ID, c.UserID, c.CreatedAt = id, userID, now
	c.Date = DateOf(now)
	if c.Status == "" {
		c.Status = CapexPending
	}
	return c
}

func (i Investment) Kind() Kind       { return KindInvestment }
func (i Investment) RecordID() string { return i.ID }
func (i Investment) OwnerID() string  { return i.UserID }

func (i Investment) Validate() error {
	if err := validateOwner(i.UserID); err != nil {
		return err
	}
	if err := validateName(i.InvestmentName); err != nil {
		return err
	}
	if !nonNegative(i.Amount) {
		return ErrInvalidAmount
	}
	if isNaNOrInf(i.ReturnPercentage) || i.ReturnPercentage < -MaxRatePercent || i.ReturnPercentage > MaxRatePercent {
		return ErrInvalidRate
	}
	switch i.Status {
	case StatusActive, StatusCompleted:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func (i Investment) Stamp(id, userID string, now time.Time) Investment {
	i.ID, i.UserID, i.CreatedAt = id, userID, now
	i.StartDate = DateOf(now)
	if i.Status == "" {
		i.Status = StatusActive
	}
	return i
}

func (l Loan) Kind() Kind       { return KindLoan }
func (l Loan) RecordID() string { return l.ID }
func (l Loan) OwnerID() string  { return l.UserID }

func (l Loan) Validate() error {
	if err := validateOwner(l.UserID); err != nil {
		return err
	}
	if err := validateName(l.LoanName); err != nil {
		return err
	}
	if !nonNegative(l.PrincipalAmount) {
		return ErrInvalidAmount
	}
	if err := ValidateLoanTerms(l.InterestRate, l.TenureMonths); err != nil {
		return err
	}
	if strings.TrimSpace(l.Status) == "" {
		return ErrInvalidStatus
	}
	return nil
}

// ValidateLoanTerms bounds a rate and tenure so the payment formula stays
// finite: at most MaxRatePercent a year over at most MaxTenureMonths.
func ValidateLoanTerms(ratePercent float64, tenureMonths int) error {
	if !nonNegative(ratePercent) || ratePercent > MaxRatePercent {
		return ErrInvalidRate
	}
	if tenureMonths < 0 || tenureMonths > MaxTenureMonths {
		return ErrInvalidTenure
	}
	return nil
}

func (l Loan) Stamp(id, userID string, now time.Time) Loan {
	l.ID, l.UserID, l.CreatedAt = id, userID, now
	l.StartDate = DateOf(now)
	if l.Status == "" {
		l.Status = StatusActive
	}
	return l
}

func (p Plan) Kind() Kind       { return KindPlan }
func (p Plan) RecordID() string { return p.ID }
func (p Plan) OwnerID() string  { return p.UserID }

func (p Plan) Validate() error {
	if err := validateOwner(p.UserID); err != nil {
		return err
	}
	if err := validateName(p.PlanName); err != nil {
		return err
	}
	if !nonNegative(p.TargetAmount) || !nonNegative(p.CurrentAmount) {
		return ErrInvalidAmount
	}
	switch p.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	return nil
}

func (p Plan) Stamp(id, userID string, now time.Time) Plan {
	p.ID, p.UserID, p.CreatedAt = id, userID, now
	p.CurrentAmount = 0
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return p
}
