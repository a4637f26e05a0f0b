package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paya-bnpl-backend/internal/domain/applicant"
	domainOrder "paya-bnpl-backend/internal/domain/order"
	domainPolicy "paya-bnpl-backend/internal/domain/policy"
	"paya-bnpl-backend/internal/domain/uow"
	"paya-bnpl-backend/internal/usecase/finance"
	"paya-bnpl-backend/internal/usecase/underwriting"
	"paya-bnpl-backend/pkg/id"
	"paya-bnpl-backend/pkg/money"
)

type Usecase struct {
	repo domainPolicy.Repository
	uow  uow.UnitOfWork
	now  func() time.Time
}

func NewUsecase(repo domainPolicy.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx, now: time.Now}
}

type UpdateInput struct {
	MinAge              int     `json:"min_age"`
	MinMonthlyIncome    int64   `json:"min_monthly_income"`
	MinYearsEmployed    int     `json:"min_years_employed"`
	MinCreditScore      int     `json:"min_credit_score"`
	MaxDefaults         int     `json:"max_defaults"`
	MaxOtherObligations int64   `json:"max_other_obligations"`
	MonthlyRatePercent  float64 `json:"monthly_rate_percent"`
	NumInstallments     int     `json:"number_of_installments"`
	MerchantAdvanceRate float64 `json:"merchant_advance_rate"`
	PlatformFeeRate     float64 `json:"platform_fee_rate"`
	ActorID             string  `json:"-"`
}

func (u *Usecase) GetActive(ctx context.Context) (*domainPolicy.Policy, error) {
	return u.repo.GetActive(ctx)
}

func (u *Usecase) ListVersions(ctx context.Context) ([]domainPolicy.Policy, error) {
	return u.repo.ListVersions(ctx)
}

// CreateVersion validates the new parameters and installs them as the next
// immutable version, deactivating prior rows in the same transaction.
// Existing rows are never edited — past evaluations keep pointing at the
// exact version they ran against.
func (u *Usecase) CreateVersion(ctx context.Context, in UpdateInput) (*domainPolicy.Policy, error) {
	if in.MinAge < 0 || in.MinMonthlyIncome < 0 || in.MinYearsEmployed < 0 ||
		in.MinCreditScore < 0 || in.MaxDefaults < 0 || in.MaxOtherObligations < 0 {
		return nil, fmt.Errorf("%w: thresholds must not be negative", domainOrder.ErrValidation)
	}
	if in.MonthlyRatePercent < 0 {
		return nil, fmt.Errorf("%w: monthly rate must not be negative", domainOrder.ErrValidation)
	}
	if in.NumInstallments <= 0 {
		return nil, fmt.Errorf("%w: number of installments must be positive", domainOrder.ErrValidation)
	}
	if !money.RatesSumToOne(in.MerchantAdvanceRate, in.PlatformFeeRate) {
		return nil, fmt.Errorf("%w: advance and fee rates must sum to 1.0", domainOrder.ErrValidation)
	}

	var created *domainPolicy.Policy
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		next := 1
		cur, err := r.Policies.GetActive(ctx)
		switch {
		case err == nil:
			next = cur.Version + 1
		case !errors.Is(err, domainPolicy.ErrNoActivePolicy):
			return err
		}

		if err := r.Policies.DeactivateAll(ctx); err != nil {
			return err
		}
		p := &domainPolicy.Policy{
			PolicyID:            id.NewID32(),
			Version:             next,
			Active:              true,
			MinAge:              in.MinAge,
			MinMonthlyIncome:    in.MinMonthlyIncome,
			MinYearsEmployed:    in.MinYearsEmployed,
			MinCreditScore:      in.MinCreditScore,
			MaxDefaults:         in.MaxDefaults,
			MaxOtherObligations: in.MaxOtherObligations,
			MonthlyRatePercent:  in.MonthlyRatePercent,
			NumInstallments:     in.NumInstallments,
			MerchantAdvanceRate: in.MerchantAdvanceRate,
			PlatformFeeRate:     in.PlatformFeeRate,
			CreatedBy:           in.ActorID,
		}
		if err := r.Policies.Create(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EnsureDefault seeds the version-1 policy on first boot.
func (u *Usecase) EnsureDefault(ctx context.Context) error {
	_, err := u.repo.GetActive(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainPolicy.ErrNoActivePolicy) {
		return err
	}
	p := domainPolicy.Default()
	p.PolicyID = id.NewID32()
	return u.repo.Create(ctx, p)
}

// Evaluation is the standalone pre-checkout answer: verdict plus, when
// approved, the terms the applicant would get.
type Evaluation struct {
	Result        underwriting.Result `json:"evaluation"`
	Terms         *finance.Terms      `json:"terms,omitempty"`
	PolicyVersion int                 `json:"policy_version"`
}

// EvaluateApplicant runs the decision engine against the active policy
// without touching any order. One consistent policy snapshot is captured for
// the whole evaluation.
func (u *Usecase) EvaluateApplicant(ctx context.Context, data applicant.Data, principal money.Amount) (*Evaluation, error) {
	pol, err := u.repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: underwriting policy: %v", domainOrder.ErrDependencyUnavailable, err)
	}
	res, err := underwriting.Evaluate(data, principal, pol.Thresholds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainOrder.ErrValidation, err)
	}
	out := &Evaluation{Result: res, PolicyVersion: pol.Version}
	if res.Approved {
		terms, err := finance.Compute(principal, pol.Interest(), pol.Split(), u.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domainOrder.ErrValidation, err)
		}
		out.Terms = &terms
	}
	return out, nil
}

// Quote computes financing terms under the active policy for an explicit
// approval date.
func (u *Usecase) Quote(ctx context.Context, principal money.Amount, approvedAt time.Time) (*finance.Terms, int, error) {
	pol, err := u.repo.GetActive(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: underwriting policy: %v", domainOrder.ErrDependencyUnavailable, err)
	}
	terms, err := finance.Compute(principal, pol.Interest(), pol.Split(), approvedAt)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domainOrder.ErrValidation, err)
	}
	return &terms, pol.Version, nil
}
