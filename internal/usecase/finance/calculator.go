package finance

import (
	"errors"
	"time"

	"paya-bnpl-backend/internal/domain/policy"
	"paya-bnpl-backend/pkg/money"
)

var (
	ErrNonPositivePrincipal = errors.New("principal must be positive")
	ErrBadInstallmentCount  = errors.New("number of installments must be positive")
	ErrNegativeRate         = errors.New("monthly rate must not be negative")
	ErrSplitRates           = errors.New("advance and fee rates must sum to 1.0")
)

type Installment struct {
	Number    int          `json:"number"`
	DueDate   time.Time    `json:"due_date"`
	Principal money.Amount `json:"principal_portion"`
	Interest  money.Amount `json:"interest_portion"`
	Total     money.Amount `json:"total_amount"`
}

type Terms struct {
	MerchantAdvance money.Amount  `json:"merchant_advance_amount"`
	PlatformFee     money.Amount  `json:"platform_fee_amount"`
	TotalInterest   money.Amount  `json:"total_interest"`
	TotalRepayable  money.Amount  `json:"total_repayable"`
	Installments    []Installment `json:"installments"`
}

// Compute turns a principal plus interest/split policy into the merchant
// settlement split and the customer repayment schedule. Pure and idempotent:
// the approval date is an explicit input, never read from the clock, so
// identical inputs always produce an identical schedule.
//
// Reconciliation rules:
//   - platform fee = floor(principal × feeRate); advance = principal − fee,
//     so advance + fee == principal by construction.
//   - simple (non-compounding) interest: principal × rate% × installments.
//   - equal installments; every division remainder is assigned to the final
//     installment so the principal and interest columns each sum exactly.
func Compute(principal money.Amount, ip policy.InterestPolicy, sp policy.SplitPolicy, approvedAt time.Time) (Terms, error) {
	if !principal.IsPositive() {
		return Terms{}, ErrNonPositivePrincipal
	}
	if ip.Installments <= 0 {
		return Terms{}, ErrBadInstallmentCount
	}
	if ip.MonthlyRatePercent < 0 {
		return Terms{}, ErrNegativeRate
	}
	if !money.RatesSumToOne(sp.MerchantAdvanceRate, sp.PlatformFeeRate) {
		return Terms{}, ErrSplitRates
	}

	fee := principal.MulRateFloor(sp.PlatformFeeRate)
	advance := principal.Sub(fee)

	totalInterest := principal.MulPercentFloor(ip.MonthlyRatePercent, ip.Installments)
	totalRepayable := principal.Add(totalInterest)

	n := ip.Installments
	perPrincipal := principal.DivFloor(n)
	perInterest := totalInterest.DivFloor(n)

	installments := make([]Installment, 0, n)
	for i := 0; i < n; i++ {
		p, in := perPrincipal, perInterest
		if i == n-1 {
			p = principal.Sub(perPrincipal * money.Amount(n-1))
			in = totalInterest.Sub(perInterest * money.Amount(n-1))
		}
		installments = append(installments, Installment{
			Number:    i + 1,
			DueDate:   dueDate(approvedAt, i+1),
			Principal: p,
			Interest:  in,
			Total:     p.Add(in),
		})
	}

	return Terms{
		MerchantAdvance: advance,
		PlatformFee:     fee,
		TotalInterest:   totalInterest,
		TotalRepayable:  totalRepayable,
		Installments:    installments,
	}, nil
}

// dueDate is approvedAt + months, truncated to a UTC calendar date.
func dueDate(approvedAt time.Time, months int) time.Time {
	d := approvedAt.UTC().AddDate(0, months, 0)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
