package underwriting

import (
	"errors"
	"fmt"

	"paya-bnpl-backend/internal/domain/applicant"
	"paya-bnpl-backend/internal/domain/policy"
	"paya-bnpl-backend/pkg/money"
)

var ErrNonPositivePrincipal = errors.New("principal must be positive")

// Metric names are stable identifiers, reused in persisted results and API
// payloads.
type Metric string

const (
	MetricAge              Metric = "age"
	MetricMonthlyIncome    Metric = "monthly_income"
	MetricYearsEmployed    Metric = "years_employed"
	MetricCreditScore      Metric = "credit_score"
	MetricDefaultCount     Metric = "default_count"
	MetricOtherObligations Metric = "other_monthly_obligations"
)

// Check is one per-metric outcome.
type Check struct {
	Metric    Metric `json:"metric"`
	Threshold int64  `json:"threshold"`
	Actual    int64  `json:"actual"`
	Passed    bool   `json:"passed"`
}

// Result is the engine verdict. Approved is the AND across all checks;
// Reasons carries one entry per failing metric (or per missing field), never
// just the first.
type Result struct {
	Approved    bool     `json:"approved"`
	Reasons     []string `json:"reasons"`
	Checks      []Check  `json:"checks"`
	RecordFound bool     `json:"record_found"`
}

// Evaluate runs the threshold policy over the applicant lookup result.
// Deterministic and side-effect free: identical inputs always produce an
// identical Result. A non-Complete applicant record is an explicit rejection,
// never a zero-filled evaluation.
func Evaluate(data applicant.Data, principal money.Amount, th policy.Thresholds) (Result, error) {
	if !principal.IsPositive() {
		return Result{}, ErrNonPositivePrincipal
	}

	switch data.Kind {
	case applicant.KindMissingRecord:
		return Result{
			Approved:    false,
			Reasons:     []string{"No employment record on file for applicant"},
			RecordFound: false,
		}, nil
	case applicant.KindPartialRecord:
		reasons := make([]string, 0, len(data.MissingFields))
		for _, f := range data.MissingFields {
			reasons = append(reasons, fmt.Sprintf("Applicant record incomplete: %s not on file", f))
		}
		return Result{Approved: false, Reasons: reasons, RecordFound: true}, nil
	}

	s := data.Snapshot
	checks := []Check{
		{Metric: MetricAge, Threshold: int64(th.MinAge), Actual: int64(s.Age), Passed: s.Age >= th.MinAge},
		{Metric: MetricMonthlyIncome, Threshold: th.MinMonthlyIncome.Minor(), Actual: s.MonthlyIncome.Minor(), Passed: s.MonthlyIncome >= th.MinMonthlyIncome},
		{Metric: MetricYearsEmployed, Threshold: int64(th.MinYearsEmployed), Actual: int64(s.YearsEmployed), Passed: s.YearsEmployed >= th.MinYearsEmployed},
		{Metric: MetricCreditScore, Threshold: int64(th.MinCreditScore), Actual: int64(s.CreditScore), Passed: s.CreditScore >= th.MinCreditScore},
		{Metric: MetricDefaultCount, Threshold: int64(th.MaxDefaults), Actual: int64(s.DefaultCount), Passed: s.DefaultCount <= th.MaxDefaults},
		{Metric: MetricOtherObligations, Threshold: th.MaxOtherObligations.Minor(), Actual: s.OtherMonthlyObligations.Minor(), Passed: s.OtherMonthlyObligations <= th.MaxOtherObligations},
	}

	res := Result{Approved: true, Reasons: []string{}, Checks: checks, RecordFound: true}
	for _, c := range checks {
		if c.Passed {
			continue
		}
		res.Approved = false
		res.Reasons = append(res.Reasons, failureReason(c, th))
	}
	return res, nil
}

func failureReason(c Check, th policy.Thresholds) string {
	switch c.Metric {
	case MetricAge:
		return fmt.Sprintf("Age must be at least %d", th.MinAge)
	case MetricMonthlyIncome:
		return fmt.Sprintf("Monthly income must be at least %d", th.MinMonthlyIncome.Minor())
	case MetricYearsEmployed:
		return fmt.Sprintf("Must be employed for at least %d year(s)", th.MinYearsEmployed)
	case MetricCreditScore:
		return fmt.Sprintf("Credit score must be at least %d", th.MinCreditScore)
	case MetricDefaultCount:
		return fmt.Sprintf("Too many defaults (max: %d)", th.MaxDefaults)
	case MetricOtherObligations:
		return fmt.Sprintf("Other monthly obligations exceed maximum (%d)", th.MaxOtherObligations.Minor())
	}
	return fmt.Sprintf("%s check failed", c.Metric)
}
