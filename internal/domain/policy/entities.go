package policy

import (
	"errors"
	"time"

	"paya-bnpl-backend/pkg/money"

	"gorm.io/gorm"
)

var (
	ErrNoActivePolicy = errors.New("no active underwriting policy")
)

// Policy is one immutable version of the underwriting thresholds and the
// interest/split parameters. Updates create a new version row and flip the
// active flag; rows are never edited, so every recorded evaluation can name
// the exact version it ran against.
type Policy struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	PolicyID string `gorm:"size:32;uniqueIndex:ux_policies_policy_id" json:"policy_id"`
	Version  int    `gorm:"not null;uniqueIndex:ux_policies_version" json:"version"`
	Active   bool   `gorm:"not null;default:false;index" json:"active"`

	// Thresholds (monetary values in minor units)
	MinAge              int   `gorm:"not null" json:"min_age"`
	MinMonthlyIncome    int64 `gorm:"not null" json:"min_monthly_income"`
	MinYearsEmployed    int   `gorm:"not null" json:"min_years_employed"`
	MinCreditScore      int   `gorm:"not null" json:"min_credit_score"`
	MaxDefaults         int   `gorm:"not null" json:"max_defaults"`
	MaxOtherObligations int64 `gorm:"not null" json:"max_other_obligations"`

	// Financing parameters
	MonthlyRatePercent  float64 `gorm:"type:decimal(6,3);not null" json:"monthly_rate_percent"`
	NumInstallments     int     `gorm:"not null" json:"number_of_installments"`
	MerchantAdvanceRate float64 `gorm:"type:decimal(6,4);not null" json:"merchant_advance_rate"`
	PlatformFeeRate     float64 `gorm:"type:decimal(6,4);not null" json:"platform_fee_rate"`

	CreatedBy string         `gorm:"size:32" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Policy) TableName() string { return "underwriting_policies" }

// Thresholds is the read-only snapshot handed to the decision engine.
type Thresholds struct {
	MinAge              int
	MinMonthlyIncome    money.Amount
	MinYearsEmployed    int
	MinCreditScore      int
	MaxDefaults         int
	MaxOtherObligations money.Amount
}

// InterestPolicy parameterizes the repayment schedule.
type InterestPolicy struct {
	MonthlyRatePercent float64
	Installments       int
}

// SplitPolicy parameterizes the merchant settlement split. The two rates
// must sum to exactly 1.0.
type SplitPolicy struct {
	MerchantAdvanceRate float64
	PlatformFeeRate     float64
}

func (p *Policy) Thresholds() Thresholds {
	return Thresholds{
		MinAge:              p.MinAge,
		MinMonthlyIncome:    money.Amount(p.MinMonthlyIncome),
		MinYearsEmployed:    p.MinYearsEmployed,
		MinCreditScore:      p.MinCreditScore,
		MaxDefaults:         p.MaxDefaults,
		MaxOtherObligations: money.Amount(p.MaxOtherObligations),
	}
}

func (p *Policy) Interest() InterestPolicy {
	return InterestPolicy{MonthlyRatePercent: p.MonthlyRatePercent, Installments: p.NumInstallments}
}

func (p *Policy) Split() SplitPolicy {
	return SplitPolicy{MerchantAdvanceRate: p.MerchantAdvanceRate, PlatformFeeRate: p.PlatformFeeRate}
}

// Default returns the version-1 policy seeded on first boot. Values mirror
// the launch configuration: 8%/month over 4 installments, 99% merchant
// advance.
func Default() *Policy {
	return &Policy{
		Version:             1,
		Active:              true,
		MinAge:              18,
		MinMonthlyIncome:    30_000_00,
		MinYearsEmployed:    1,
		MinCreditScore:      600,
		MaxDefaults:         0,
		MaxOtherObligations: 50_000_00,
		MonthlyRatePercent:  8,
		NumInstallments:     4,
		MerchantAdvanceRate: 0.99,
		PlatformFeeRate:     0.01,
	}
}
