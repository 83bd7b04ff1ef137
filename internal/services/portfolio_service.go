package services

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/ports"

	"golang.org/x/sync/errgroup"
)

// PortfolioService builds the visualization view from the four category
// collections. Nothing is cached; every call re-reads the stores.
type PortfolioService struct {
	investments ports.RecordStore[core.Investment]
	loans       ports.RecordStore[core.Loan]
	capex       ports.RecordStore[core.CapexItem]
	vouchers    ports.RecordStore[core.Voucher]
}

func NewPortfolioService(stores ports.Stores) *PortfolioService {
	return &PortfolioService{
		investments: stores.Investments,
		loans:       stores.Loans,
		capex:       stores.Capex,
		vouchers:    stores.Vouchers,
	}
}

// CategoryTotals fetches the four category sums concurrently. The first
// failing fetch cancels the others and its error is returned; a failed
// category is never reported as zero.
func (s *PortfolioService) CategoryTotals(ctx context.Context, userID string) (map[string]float64, error) {
	var inv, loans, capex, vouchers float64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		inv, err = sumOf(ctx, s.investments, userID, func(i core.Investment) float64 { return i.Amount })
		return err
	})
	g.Go(func() (err error) {
		loans, err = sumOf(ctx, s.loans, userID, func(l core.Loan) float64 { return l.PrincipalAmount })
		return err
	})
	g.Go(func() (err error) {
		capex, err = sumOf(ctx, s.capex, userID, func(c core.CapexItem) float64 { return c.Amount })
		return err
	})
	g.Go(func() (err error) {
		vouchers, err = sumOf(ctx, s.vouchers, userID, func(v core.Voucher) float64 { return v.Amount })
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[string]float64{
		core.CategoryInvestments: inv,
		core.CategoryLoans:       loans,
		core.CategoryCapex:       capex,
		core.CategoryVouchers:    vouchers,
	}, nil
}

// Portfolio returns the aggregated totals and shares for the user.
func (s *PortfolioService) Portfolio(ctx context.Context, userID string) (finance.Portfolio, error) {
	totals, err := s.CategoryTotals(ctx, userID)
	if err != nil {
		return finance.Portfolio{}, err
	}
	return finance.Aggregate(totals), nil
}

// Snapshot captures the portfolio for export.
func (s *PortfolioService) Snapshot(ctx context.Context, userID, trigger string, at time.Time) (core.PortfolioSnapshot, error) {
	p, err := s.Portfolio(ctx, userID)
	if err != nil {
		return core.PortfolioSnapshot{}, err
	}
	return core.PortfolioSnapshot{
		TakenAt: at,
		UserID:  userID,
		Trigger: trigger,
		Total:   p.Total,
		Totals:  p.Totals,
		Shares:  p.Shares,
	}, nil
}

func sumOf[T any](ctx context.Context, store ports.RecordStore[T], userID string, amount func(T) float64) (float64, error) {
	recs, err := store.ListForUser(ctx, userID)
	if err != nil {
		var zero T
		return 0, fmt.Errorf("fetch %T totals: %w", zero, err)
	}
	var total float64
	for _, r := range recs {
		total += amount(r)
	}
	return total, nil
}
