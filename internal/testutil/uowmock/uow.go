package uowmock

import (
	"context"

	"paya-bnpl-backend/internal/domain/order"
	"paya-bnpl-backend/internal/domain/uow"
)

// UoW is a function-backed mock that satisfies uow.UnitOfWork. Tests supply
// the repos the callback should see; there is no real transaction.
type UoW struct {
	WithinTxFn      func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinOrderTxFn func(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.Order) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return context.Canceled
}

func (m *UoW) WithinOrderTx(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.Order) error) error {
	if m.WithinOrderTxFn != nil {
		return m.WithinOrderTxFn(ctx, orderID, fn)
	}
	return context.Canceled
}
