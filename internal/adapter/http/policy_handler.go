package http

import (
	"errors"
	"net/http"

	policyDomain "paya-bnpl-backend/internal/domain/policy"
	policyUC "paya-bnpl-backend/internal/usecase/policy"

	"github.com/labstack/echo/v4"
)

type PolicyHandler struct{ uc *policyUC.Usecase }

func NewPolicyHandler(uc *policyUC.Usecase) *PolicyHandler { return &PolicyHandler{uc: uc} }

func (h *PolicyHandler) GetPolicy(c echo.Context) error {
	p, err := h.uc.GetActive(c.Request().Context())
	if err != nil {
		if errors.Is(err, policyDomain.ErrNoActivePolicy) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no active policy"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PolicyHandler) ListPolicyVersions(c echo.Context) error {
	versions, err := h.uc.ListVersions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"versions": versions})
}

type updatePolicyReq struct {
	MinAge              int     `json:"min_age"                validate:"gte=0"`
	MinMonthlyIncome    int64   `json:"min_monthly_income"     validate:"gte=0"`
	MinYearsEmployed    int     `json:"min_years_employed"     validate:"gte=0"`
	MinCreditScore      int     `json:"min_credit_score"       validate:"gte=0"`
	MaxDefaults         int     `json:"max_defaults"           validate:"gte=0"`
	MaxOtherObligations int64   `json:"max_other_obligations"  validate:"gte=0"`
	MonthlyRatePercent  float64 `json:"monthly_rate_percent"   validate:"gte=0,dec3"`
	NumInstallments     int     `json:"number_of_installments" validate:"required,gte=1"`
	MerchantAdvanceRate float64 `json:"merchant_advance_rate"  validate:"required,gt=0,lte=1,dec4"`
	PlatformFeeRate     float64 `json:"platform_fee_rate"      validate:"gte=0,dec4"`
	ActorID             string  `json:"actor_id"               validate:"required,hex32"`
}

// UpdatePolicy installs a new policy version; the existing rows stay as
// immutable history.
func (h *PolicyHandler) UpdatePolicy(c echo.Context) error {
	var req updatePolicyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	p, err := h.uc.CreateVersion(c.Request().Context(), policyUC.UpdateInput{
		MinAge:              req.MinAge,
		MinMonthlyIncome:    req.MinMonthlyIncome,
		MinYearsEmployed:    req.MinYearsEmployed,
		MinCreditScore:      req.MinCreditScore,
		MaxDefaults:         req.MaxDefaults,
		MaxOtherObligations: req.MaxOtherObligations,
		MonthlyRatePercent:  req.MonthlyRatePercent,
		NumInstallments:     req.NumInstallments,
		MerchantAdvanceRate: req.MerchantAdvanceRate,
		PlatformFeeRate:     req.PlatformFeeRate,
		ActorID:             req.ActorID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
