package services

import (
	"finboard/internal/core"
	"finboard/internal/finance"
)

// Page summaries pair each collection with the figures its page shows.

type LoanView struct {
	core.Loan
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayable   float64 `json:"total_payable"`
	TotalInterest  float64 `json:"total_interest"`
}

type LoanSummary struct {
	Loans          []LoanView `json:"loans"`
	TotalPrincipal float64    `json:"total_principal"`
	// AnnualInterest is Σ principal × rate / 100, one year of simple interest.
	AnnualInterest float64 `json:"annual_interest"`
}

func SummarizeLoans(loans []core.Loan) LoanSummary {
	s := LoanSummary{Loans: make([]LoanView, 0, len(loans))}
	for _, l := range loans {
		s.TotalPrincipal += l.PrincipalAmount
		s.AnnualInterest += l.PrincipalAmount * l.InterestRate / 100
		s.Loans = append(s.Loans, LoanView{
			Loan:           l,
			MonthlyPayment: finance.MonthlyPayment(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
			TotalPayable:   finance.TotalPayable(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
			TotalInterest:  finance.TotalInterest(l.PrincipalAmount, l.InterestRate, l.TenureMonths),
		})
	}
	return s
}

type InvestmentView struct {
	core.Investment
	ExpectedReturn float64 `json:"expected_return"`
}

type InvestmentSummary struct {
	Investments   []InvestmentView `json:"investments"`
	TotalInvested float64          `json:"total_invested"`
	TotalReturns  float64          `json:"total_returns"`
	// WeightedReturn is the amount-weighted return percentage; 0 with nothing invested.
	WeightedReturn float64 `json:"weighted_return"`
}

func SummarizeInvestments(invs []core.Investment) InvestmentSummary {
	s := InvestmentSummary{Investments: make([]InvestmentView, 0, len(invs))}
	for _, i := range invs {
		ret := finance.ExpectedReturn(i.Amount, i.ReturnPercentage)
		s.TotalInvested += i.Amount
		s.TotalReturns += ret
		s.Investments = append(s.Investments, InvestmentView{Investment: i, ExpectedReturn: ret})
	}
	if s.TotalInvested != 0 {
		s.WeightedReturn = s.TotalReturns / s.TotalInvested * 100
	}
	return s
}

type PlanView struct {
	core.Plan
	Progress     finance.Progress `json:"progress"`
	PercentLabel int              `json:"percent_label"`
}

type PlanSummary struct {
	Plans       []PlanView `json:"plans"`
	TotalTarget float64    `json:"total_target"`
	TotalSaved  float64    `json:"total_saved"`
}

func SummarizePlans(plans []core.Plan) PlanSummary {
	s := PlanSummary{Plans: make([]PlanView, 0, len(plans))}
	for _, p := range plans {
		pr := finance.PlanProgress(p.TargetAmount, p.CurrentAmount)
		s.TotalTarget += p.TargetAmount
		s.TotalSaved += p.CurrentAmount
		s.Plans = append(s.Plans, PlanView{Plan: p, Progress: pr, PercentLabel: pr.RoundedPercent()})
	}
	return s
}

type CapexSummary struct {
	Items    []core.CapexItem   `json:"items"`
	Total    float64            `json:"total"`
	ByStatus map[string]float64 `json:"by_status"`
}

func SummarizeCapex(items []core.CapexItem) CapexSummary {
	s := CapexSummary{Items: items, ByStatus: make(map[string]float64)}
	for _, it := range items {
		s.Total += it.Amount
		s.ByStatus[it.Status] += it.Amount
	}
	return s
}

type VoucherSummary struct {
	Vouchers []core.Voucher `json:"vouchers"`
	Total    float64        `json:"total"`
}

func SummarizeVouchers(vs []core.Voucher) VoucherSummary {
	s := VoucherSummary{Vouchers: vs}
	for _, v := range vs {
		s.Total += v.Amount
	}
	return s
}

type CropSummary struct {
	Crops     []core.Crop    `json:"crops"`
	TotalArea float64        `json:"total_area"`
	ByStatus  map[string]int `json:"by_status"`
}

func SummarizeCrops(crops []core.Crop) CropSummary {
	s := CropSummary{Crops: crops, ByStatus: make(map[string]int)}
	for _, c := range crops {
		if c.AreaPlanted != nil {
			s.TotalArea += *c.AreaPlanted
		}
		s.ByStatus[c.Status]++
	}
	return s
}
