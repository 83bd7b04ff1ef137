package http

import (
	"fmt"
	"net/http"

	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/finance"
	applog "finboard/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	m, err := s.metrics.GetOrSeed(ctx, user)
	if err != nil {
		errorResponseFor(ctx, "dashboard", err).Write(w)
		return
	}
	NewJSONResponse().Body(m).Write(w)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	p, err := s.portfolio.Portfolio(ctx, user)
	if err != nil {
		errorResponseFor(ctx, "portfolio", err).Write(w)
		return
	}
	NewJSONResponse().Body(p).Write(w)
}

func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	p, err := s.portfolio.Portfolio(ctx, user)
	if err != nil {
		errorResponseFor(ctx, "portfolio", err).Write(w)
		return
	}
	png, err := chart.RenderPortfolioChart(p)
	if err != nil {
		errorResponseFor(ctx, applog.OpRender, err).Write(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleLoanSchedule returns the amortization schedule of one of the
// user's loans. Periods fall due monthly from the loan's start date.
func (s *Server) handleLoanSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	loans, err := s.loans.List(ctx, user)
	if err != nil {
		errorResponseFor(ctx, applog.OpList, err).Write(w)
		return
	}

	id := r.PathValue("id")
	for _, l := range loans {
		if l.ID != id {
			continue
		}
		start := l.StartDate.Time
		if l.StartDate.IsEmpty() {
			start = core.DateOf(l.CreatedAt).Time
		}
		NewJSONResponse().Body(loanSchedule{
			Loan:           l,
			MonthlyPayment: finance.MonthlyPayment(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
			TotalPayable:   finance.TotalPayable(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
			TotalInterest:  finance.TotalInterest(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
			Schedule:       finance.Schedule(l.PrincipalAmount, l.InterestRate, l.TenureMonths, start),
		}).Write(w)
		return
	}
	errorResponseFor(ctx, "schedule", fmt.Errorf("loan %s: %w", id, core.ErrNotFound)).Write(w)
}

type loanSchedule struct {
	Loan           core.Loan               `json:"loan"`
	MonthlyPayment float64                 `json:"monthly_payment"`
	TotalPayable   float64                 `json:"total_payable"`
	TotalInterest  float64                 `json:"total_interest"`
	Schedule       []finance.ScheduleEntry `json:"schedule"`
}
