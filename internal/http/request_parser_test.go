package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finboard/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
		wantJSON    bool
	}{
		{"json string", "application/json", `{"loan_name":" Car "}`, "loan_name", "Car", true},
		{"json number", "application/json", `{"principal_amount":120000.5}`, "principal_amount", "120000.5", true},
		{"json missing key", "application/json", `{"a":"b"}`, "loan_name", "", true},
		{"form", "application/x-www-form-urlencoded", "loan_name=Car&tenure_months=24", "tenure_months", "24", false},
		{"control chars stripped", "application/x-www-form-urlencoded", "loan_name=Ca%00r", "loan_name", "Car", false},
		{"empty body", "", "", "loan_name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"loan_name":`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if err := p.Parse(); err == nil {
		t.Error("Parse() should keep returning the first error")
	}
}

func TestParseLoan_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantRate   float64
		wantTenure int
	}{
		{"all set", "loan_name=Car&principal_amount=120000&interest_rate=9.5&tenure_months=24", 9.5, 24},
		{"unparseable rate", "loan_name=Car&principal_amount=1000&interest_rate=abc&tenure_months=6", 0, 6},
		{"missing tenure", "loan_name=Car&principal_amount=1000", 0, 12},
		{"zero tenure", "loan_name=Car&principal_amount=1000&tenure_months=0", 0, 12},
		{"comma decimal", "loan_name=Car&principal_amount=1000&interest_rate=7,25&tenure_months=x", 7.25, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := parseLoan(newParser(t, "application/x-www-form-urlencoded", tt.body))
			if err != nil {
				t.Fatalf("parseLoan() error = %v", err)
			}
			if loan.InterestRate != tt.wantRate || loan.TenureMonths != tt.wantTenure {
				t.Errorf("rate, tenure = %v, %d; want %v, %d", loan.InterestRate, loan.TenureMonths, tt.wantRate, tt.wantTenure)
			}
		})
	}
}

func TestParseRecords_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		parse func(*RequestBodyParser) error
		body  string
		field string
	}{
		{"voucher negative", func(p *RequestBodyParser) error { _, err := parseVoucher(p); return err }, `{"amount":"-5"}`, "amount"},
		{"capex missing", func(p *RequestBodyParser) error { _, err := parseCapex(p); return err }, `{"item_name":"Tractor"}`, "amount"},
		{"investment garbage", func(p *RequestBodyParser) error { _, err := parseInvestment(p); return err }, `{"amount":"lots"}`, "amount"},
		{"loan missing principal", func(p *RequestBodyParser) error { _, err := parseLoan(p); return err }, `{"loan_name":"Car"}`, "principal_amount"},
		{"plan missing target", func(p *RequestBodyParser) error { _, err := parsePlan(p); return err }, `{"plan_name":"House"}`, "target_amount"},
		{"crop bad area", func(p *RequestBodyParser) error { _, err := parseCrop(p); return err }, `{"crop_name":"Wheat","area_planted":"x"}`, "area_planted"},
		{"crop bad date", func(p *RequestBodyParser) error { _, err := parseCrop(p); return err }, `{"crop_name":"Wheat","harvest_date":"31/12/2024"}`, "harvest_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(newParser(t, "application/json", tt.body))
			var fe *fieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want fieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestParseCrop_OptionalFields(t *testing.T) {
	crop, err := parseCrop(newParser(t, "application/json", `{"crop_name":"Wheat","area_planted":"","harvest_date":"2024-09-01"}`))
	if err != nil {
		t.Fatalf("parseCrop() error = %v", err)
	}
	if crop.AreaPlanted != nil || crop.Yield != nil {
		t.Errorf("optional numbers should be nil, got %v %v", crop.AreaPlanted, crop.Yield)
	}
	if !crop.HarvestDate.Equal(core.NewDate(2024, 9, 1).Time) {
		t.Errorf("HarvestDate = %v", crop.HarvestDate)
	}
}
