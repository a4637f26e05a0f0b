package ordermock

import (
	"context"

	domain "paya-bnpl-backend/internal/domain/order"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                func(ctx context.Context, o *domain.Order) error
	GetByOrderIDFn          func(ctx context.Context, orderID string) (*domain.Order, error)
	GetByOrderIDForUpdateFn func(ctx context.Context, orderID string) (*domain.Order, error)
	ListByCustomerIDFn      func(ctx context.Context, customerID string) ([]domain.Order, error)
	SaveWithVersionFn       func(ctx context.Context, o *domain.Order, expected uint64) error
	AppendTimelineFn        func(ctx context.Context, e *domain.TimelineEntry) error
	SetUnderwritingResultFn func(ctx context.Context, r *domain.UnderwritingResult) error
	SetFinancialTermsFn     func(ctx context.Context, t *domain.FinancialTerms) error
	SaveInstallmentFn       func(ctx context.Context, inst *domain.Installment) error
}

func (m *Repo) Create(ctx context.Context, o *domain.Order) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *Repo) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.GetByOrderIDFn != nil {
		return m.GetByOrderIDFn(ctx, orderID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.GetByOrderIDForUpdateFn != nil {
		return m.GetByOrderIDForUpdateFn(ctx, orderID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error) {
	if m.ListByCustomerIDFn != nil {
		return m.ListByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveWithVersion(ctx context.Context, o *domain.Order, expected uint64) error {
	if m.SaveWithVersionFn != nil {
		return m.SaveWithVersionFn(ctx, o, expected)
	}
	return nil
}

func (m *Repo) AppendTimeline(ctx context.Context, e *domain.TimelineEntry) error {
	if m.AppendTimelineFn != nil {
		return m.AppendTimelineFn(ctx, e)
	}
	return nil
}

func (m *Repo) SetUnderwritingResult(ctx context.Context, r *domain.UnderwritingResult) error {
	if m.SetUnderwritingResultFn != nil {
		return m.SetUnderwritingResultFn(ctx, r)
	}
	return nil
}

func (m *Repo) SetFinancialTerms(ctx context.Context, t *domain.FinancialTerms) error {
	if m.SetFinancialTermsFn != nil {
		return m.SetFinancialTermsFn(ctx, t)
	}
	return nil
}

func (m *Repo) SaveInstallment(ctx context.Context, inst *domain.Installment) error {
	if m.SaveInstallmentFn != nil {
		return m.SaveInstallmentFn(ctx, inst)
	}
	return nil
}
