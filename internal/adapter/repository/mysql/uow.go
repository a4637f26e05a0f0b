package mysql

import (
	"context"

	"paya-bnpl-backend/internal/domain/order"
	"paya-bnpl-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Orders:   &OrderRepository{db: tx},
			Policies: &PolicyRepository{db: tx},
		}
		return fn(r)
	})
}

func (u *GormUoW) WithinOrderTx(ctx context.Context, orderID string, fn func(r uow.Repos, o *order.Order) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Orders:   &OrderRepository{db: tx},
			Policies: &PolicyRepository{db: tx},
		}
		// lock the order row up-front to prevent races
		o, err := r.Orders.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		return fn(r, o)
	})
}
