// Package salary implements the deterministic salary computation.
//
// Calculate is a pure function over the attendance totals of one month: it
// holds no state and has no side effects, so computing the same inputs twice
// always yields the same result.
package salary

import (
	"github.com/house-help/backend/internal/ledger"
	"github.com/house-help/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Bounds for the configurable inputs. Out-of-range values are clamped
// silently instead of being rejected.
const (
	MaxMonthlySalary    int64 = 1_000_000_000
	MaxPaidOffAllowance int64 = 366
)

// Result is the salary breakdown for one worker and month.
//
// All amounts stay exact decimals; rounding to whole currency happens only
// at presentation time to avoid compounding rounding error across the month.
type Result struct {
	PerDay  decimal.Decimal `json:"perDay"`
	HalfDay decimal.Decimal `json:"halfDay"`

	PaidOffCount   int64 `json:"paidOffCount"`
	UnpaidOffCount int64 `json:"unpaidOffCount"`

	WorkedAmount decimal.Decimal `json:"workedAmount"`
	HalfAmount   decimal.Decimal `json:"halfAmount"`
	OffAmount    decimal.Decimal `json:"offAmount"`

	GrossPayable    decimal.Decimal `json:"grossPayable"`
	DeductionsTotal decimal.Decimal `json:"deductionsTotal"`
	NetPayable      decimal.Decimal `json:"netPayable"`
}

func clamp(n, min, max int64) int64 {
	if n < min {
		return min
	}

	if n > max {
		return max
	}

	return n
}

// Calculate computes the salary breakdown for one month.
//
// The monthly salary is split across the actual calendar days of the month.
// OFF days are paid at the full per-day rate up to the paid OFF allowance,
// every OFF day beyond that is unpaid. Absent days are never paid.
// Deductions with non-positive amounts are ignored, not errored.
// The net payable never goes below zero.
func Calculate(month types.Month, totals ledger.Totals, monthlySalary, paidOffAllowance int64, deductions []ledger.Deduction) Result {
	monthlySalary = clamp(monthlySalary, 0, MaxMonthlySalary)
	paidOffAllowance = clamp(paidOffAllowance, 0, MaxPaidOffAllowance)

	days := int64(month.Days())

	perDay := decimal.NewFromInt(monthlySalary).Div(decimal.NewFromInt(days))
	halfDay := perDay.Div(decimal.NewFromInt(2))

	off := int64(totals.Off)
	paidOffCount := min(off, paidOffAllowance)
	unpaidOffCount := max(int64(0), off-paidOffAllowance)

	workedAmount := perDay.Mul(decimal.NewFromInt(int64(totals.Worked)))
	halfAmount := halfDay.Mul(decimal.NewFromInt(int64(totals.Half)))
	offAmount := perDay.Mul(decimal.NewFromInt(paidOffCount))

	gross := workedAmount.Add(halfAmount).Add(offAmount)

	deductionsTotal := decimal.Zero
	for _, d := range deductions {
		if d.Amount > 0 {
			deductionsTotal = deductionsTotal.Add(decimal.NewFromInt(d.Amount))
		}
	}

	net := gross.Sub(deductionsTotal)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Result{
		PerDay:          perDay,
		HalfDay:         halfDay,
		PaidOffCount:    paidOffCount,
		UnpaidOffCount:  unpaidOffCount,
		WorkedAmount:    workedAmount,
		HalfAmount:      halfAmount,
		OffAmount:       offAmount,
		GrossPayable:    gross,
		DeductionsTotal: deductionsTotal,
		NetPayable:      net,
	}
}
