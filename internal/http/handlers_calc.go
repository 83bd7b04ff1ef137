package http

import (
	"errors"
	"math"
	"net/http"

	"finboard/internal/core"
	"finboard/internal/finance"
	applog "finboard/internal/log"
)

// Stateless calculator endpoints. Inputs follow the create forms: amounts
// must parse, rates default to 0 and tenure to 12 months. Loan terms are
// bounded like stored loans, and a result that is not a finite number is
// rejected rather than encoded.

var errResultOutOfRange = errors.New("result out of range")

type emiResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayable   float64 `json:"total_payable"`
	TotalInterest  float64 `json:"total_interest"`
}

type returnResult struct {
	ExpectedReturn float64 `json:"expected_return"`
}

type progressResult struct {
	finance.Progress
	PercentLabel int `json:"percent_label"`
}

func (s *Server) handleCalcEMI(w http.ResponseWriter, r *http.Request) {
	p, ok := parseCalcBody(w, r)
	if !ok {
		return
	}
	principal, err := p.amount("principal_amount")
	if err != nil {
		errorResponseFor(r.Context(), applog.OpCalc, err).Write(w)
		return
	}
	rate := core.ParseRate(p.Get("interest_rate"))
	tenure := core.ParseTenure(p.Get("tenure_months"))
	if err := core.ValidateLoanTerms(rate, tenure); err != nil {
		field := "interest_rate"
		if errors.Is(err, core.ErrInvalidTenure) {
			field = "tenure_months"
		}
		errorResponseFor(r.Context(), applog.OpCalc, &fieldError{Field: field, Err: err}).Write(w)
		return
	}

	res := emiResult{
		MonthlyPayment: finance.MonthlyPayment(principal, rate, tenure),
		TotalPayable:   finance.TotalPayable(principal, rate, tenure),
		TotalInterest:  finance.TotalInterest(principal, rate, tenure),
	}
	if !finite(res.MonthlyPayment, res.TotalPayable, res.TotalInterest) {
		errorResponseFor(r.Context(), applog.OpCalc, errResultOutOfRange).Write(w)
		return
	}
	NewJSONResponse().Body(res).Write(w)
}

func (s *Server) handleCalcReturn(w http.ResponseWriter, r *http.Request) {
	p, ok := parseCalcBody(w, r)
	if !ok {
		return
	}
	amount, err := p.amount("amount")
	if err != nil {
		errorResponseFor(r.Context(), applog.OpCalc, err).Write(w)
		return
	}
	rate := core.ParseRate(p.Get("return_percentage"))
	ret := finance.ExpectedReturn(amount, rate)
	if !finite(ret) {
		errorResponseFor(r.Context(), applog.OpCalc, errResultOutOfRange).Write(w)
		return
	}
	NewJSONResponse().Body(returnResult{ExpectedReturn: ret}).Write(w)
}

func (s *Server) handleCalcProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := parseCalcBody(w, r)
	if !ok {
		return
	}
	target, err := p.amount("target_amount")
	if err != nil {
		errorResponseFor(r.Context(), applog.OpCalc, err).Write(w)
		return
	}
	current, err := p.amount("current_amount")
	if err != nil {
		errorResponseFor(r.Context(), applog.OpCalc, err).Write(w)
		return
	}
	pr := finance.PlanProgress(target, current)
	if !finite(pr.RawPercent, pr.ClampedPercent, pr.Remaining) {
		errorResponseFor(r.Context(), applog.OpCalc, errResultOutOfRange).Write(w)
		return
	}
	NewJSONResponse().Body(progressResult{Progress: pr, PercentLabel: pr.RoundedPercent()}).Write(w)
}

func parseCalcBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return nil, false
	}
	return p, true
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
