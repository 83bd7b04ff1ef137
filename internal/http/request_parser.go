// Package http provides the JSON API server and its handlers.
//
// This file implements the body parser shared by every create and calc
// endpoint. Bodies may be JSON objects or form-encoded.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finboard/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a request body once and exposes its fields as
// strings, whether it arrived as JSON or form-encoded.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body. A body starting with '{' is read as JSON,
// anything else as form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("decode JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns the trimmed, sanitized value of key or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON reports whether the body was decoded as JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput strips control characters (keeping tab and newlines) and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// fieldError names the form field that failed to parse.
type fieldError struct {
	Field string
	Err   error
}

func (e *fieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *fieldError) Unwrap() error { return e.Err }

func (p *RequestBodyParser) amount(field string) (float64, error) {
	v, err := core.ParseAmount(p.Get(field))
	if err != nil {
		return 0, &fieldError{Field: field, Err: err}
	}
	return v, nil
}

func (p *RequestBodyParser) optionalAmount(field string) (*float64, error) {
	v, err := core.ParseOptionalAmount(p.Get(field))
	if err != nil {
		return nil, &fieldError{Field: field, Err: err}
	}
	return v, nil
}

var errInvalidDate = errors.New("invalid date, want YYYY-MM-DD")

func (p *RequestBodyParser) date(field string) (core.Date, error) {
	d, err := core.ParseDate(p.Get(field))
	if err != nil {
		return core.Date{}, &fieldError{Field: field, Err: errInvalidDate}
	}
	return d, nil
}

// Record decoders. Missing statuses and priorities are left empty so the
// record's Stamp applies the collection default.

func parseVoucher(p *RequestBodyParser) (core.Voucher, error) {
	amount, err := p.amount("amount")
	if err != nil {
		return core.Voucher{}, err
	}
	return core.Voucher{
		VoucherNumber: p.Get("voucher_number"),
		Amount:        amount,
		Description:   p.Get("description"),
	}, nil
}

func parseCrop(p *RequestBodyParser) (core.Crop, error) {
	area, err := p.optionalAmount("area_planted")
	if err != nil {
		return core.Crop{}, err
	}
	yield, err := p.optionalAmount("yield")
	if err != nil {
		return core.Crop{}, err
	}
	harvest, err := p.date("harvest_date")
	if err != nil {
		return core.Crop{}, err
	}
	return core.Crop{
		CropName:    p.Get("crop_name"),
		AreaPlanted: area,
		Yield:       yield,
		HarvestDate: harvest,
		Status:      p.Get("status"),
	}, nil
}

func parseCapex(p *RequestBodyParser) (core.CapexItem, error) {
	amount, err := p.amount("amount")
	if err != nil {
		return core.CapexItem{}, err
	}
	return core.CapexItem{
		ItemName: p.Get("item_name"),
		Amount:   amount,
		Category: p.Get("category"),
		Status:   p.Get("status"),
	}, nil
}

func parseInvestment(p *RequestBodyParser) (core.Investment, error) {
	amount, err := p.amount("amount")
	if err != nil {
		return core.Investment{}, err
	}
	return core.Investment{
		InvestmentName:   p.Get("investment_name"),
		Amount:           amount,
		ReturnPercentage: core.ParseRate(p.Get("return_percentage")),
		Status:           p.Get("status"),
	}, nil
}

func parseLoan(p *RequestBodyParser) (core.Loan, error) {
	principal, err := p.amount("principal_amount")
	if err != nil {
		return core.Loan{}, err
	}
	return core.Loan{
		LoanName:        p.Get("loan_name"),
		PrincipalAmount: principal,
		InterestRate:    core.ParseRate(p.Get("interest_rate")),
		TenureMonths:    core.ParseTenure(p.Get("tenure_months")),
		Status:          p.Get("status"),
	}, nil
}

func parsePlan(p *RequestBodyParser) (core.Plan, error) {
	target, err := p.amount("target_amount")
	if err != nil {
		return core.Plan{}, err
	}
	deadline, err := p.date("deadline")
	if err != nil {
		return core.Plan{}, err
	}
	return core.Plan{
		PlanName:     p.Get("plan_name"),
		Category:     p.Get("category"),
		TargetAmount: target,
		Deadline:     deadline,
		Priority:     p.Get("priority"),
	}, nil
}
