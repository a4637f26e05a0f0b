package uow

import (
	"context"

	"paya-bnpl-backend/internal/domain/order"
	"paya-bnpl-backend/internal/domain/policy"
)

type Repos struct {
	Orders   order.Repository
	Policies policy.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the order row first, then pass it in
	WithinOrderTx(ctx context.Context, orderID string, fn func(r Repos, o *order.Order) error) error
}
