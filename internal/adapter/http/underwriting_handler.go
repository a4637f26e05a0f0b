package http

import (
	"net/http"
	"time"

	applicantDomain "paya-bnpl-backend/internal/domain/applicant"
	policyUC "paya-bnpl-backend/internal/usecase/policy"
	"paya-bnpl-backend/pkg/money"

	"github.com/labstack/echo/v4"
)

// UnderwritingHandler exposes the standalone decision endpoints: evaluate an
// applicant against the active policy and quote financing terms, both without
// touching any order.
type UnderwritingHandler struct{ uc *policyUC.Usecase }

func NewUnderwritingHandler(uc *policyUC.Usecase) *UnderwritingHandler {
	return &UnderwritingHandler{uc: uc}
}

// applicantReq uses pointers so an omitted field reads as "not on file"
// rather than a zero. Callers describing a partial record just leave the
// unknown fields out.
type applicantReq struct {
	Age                     *int   `json:"age"`
	MonthlyIncome           *int64 `json:"monthly_income"`
	YearsEmployed           *int   `json:"years_employed"`
	CreditScore             *int   `json:"credit_score"`
	DefaultCount            *int   `json:"default_count"`
	OtherMonthlyObligations *int64 `json:"other_monthly_obligations"`
}

func (r *applicantReq) toData() applicantDomain.Data {
	var s applicantDomain.Snapshot
	var missing []string

	if r.Age != nil {
		s.Age = *r.Age
	} else {
		missing = append(missing, "age")
	}
	if r.MonthlyIncome != nil {
		s.MonthlyIncome = money.Amount(*r.MonthlyIncome)
	} else {
		missing = append(missing, "monthly_income")
	}
	if r.YearsEmployed != nil {
		s.YearsEmployed = *r.YearsEmployed
	} else {
		missing = append(missing, "years_employed")
	}
	if r.CreditScore != nil {
		s.CreditScore = *r.CreditScore
	} else {
		missing = append(missing, "credit_score")
	}
	if r.DefaultCount != nil {
		s.DefaultCount = *r.DefaultCount
	} else {
		missing = append(missing, "default_count")
	}
	if r.OtherMonthlyObligations != nil {
		s.OtherMonthlyObligations = money.Amount(*r.OtherMonthlyObligations)
	} else {
		missing = append(missing, "other_monthly_obligations")
	}

	if len(missing) > 0 {
		return applicantDomain.PartialRecord(s, missing)
	}
	return applicantDomain.Complete(s)
}

type evaluateReq struct {
	PrincipalAmount int64         `json:"principal_amount" validate:"required,gt=0"`
	Applicant       *applicantReq `json:"applicant"        validate:"required"`
}

func (h *UnderwritingHandler) EvaluateApplicant(c echo.Context) error {
	var req evaluateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	out, err := h.uc.EvaluateApplicant(c.Request().Context(), req.Applicant.toData(), money.Amount(req.PrincipalAmount))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type quoteReq struct {
	PrincipalAmount int64  `json:"principal_amount" validate:"required,gt=0"`
	ApprovedAt      string `json:"approved_at"      validate:"omitempty,datetime=2006-01-02"`
}

func (h *UnderwritingHandler) QuoteTerms(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	approvedAt := time.Now().UTC()
	if req.ApprovedAt != "" {
		var err error
		approvedAt, err = time.Parse("2006-01-02", req.ApprovedAt)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "ApprovedAt", Message: "must be a date in 2006-01-02 format"}},
			})
		}
	}

	terms, version, err := h.uc.Quote(c.Request().Context(), money.Amount(req.PrincipalAmount), approvedAt)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"terms":          terms,
		"policy_version": version,
	})
}
