package mysql

import (
	"context"
	"errors"

	orderDomain "paya-bnpl-backend/internal/domain/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{db: db} }

func (r *OrderRepository) Create(ctx context.Context, o *orderDomain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*orderDomain.Order, error) {
	var out orderDomain.Order
	res := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("at ASC, id ASC") }).
		Preload("Result").
		Preload("Terms").
		Preload("Terms.Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Where("order_id = ?", orderID).
		First(&out)
	if res.Error != nil {
		return nil, mapNotFound(res.Error)
	}
	return &out, nil
}

// GetByOrderIDForUpdate locks the order row for the surrounding transaction.
// Associations load through separate queries; the row lock on orders is what
// serializes concurrent transitions.
func (r *OrderRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*orderDomain.Order, error) {
	var out orderDomain.Order
	tx := r.db.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		// sqlite (tests) has no row locks
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := tx.Where("order_id = ?", orderID).First(&out)
	if res.Error != nil {
		return nil, mapNotFound(res.Error)
	}
	var terms orderDomain.FinancialTerms
	res = r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		Where("order_ref = ?", out.ID).
		First(&terms)
	switch {
	case res.Error == nil:
		out.Terms = &terms
	case !errors.Is(res.Error, gorm.ErrRecordNotFound):
		return nil, res.Error
	}
	var result orderDomain.UnderwritingResult
	res = r.db.WithContext(ctx).Where("order_ref = ?", out.ID).First(&result)
	switch {
	case res.Error == nil:
		out.Result = &result
	case !errors.Is(res.Error, gorm.ErrRecordNotFound):
		return nil, res.Error
	}
	return &out, nil
}

func (r *OrderRepository) ListByCustomerID(ctx context.Context, customerID string) ([]orderDomain.Order, error) {
	var out []orderDomain.Order
	res := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// SaveWithVersion is the optimistic write: the UPDATE carries the expected
// version in its predicate, so a stale token touches zero rows.
func (r *OrderRepository) SaveWithVersion(ctx context.Context, o *orderDomain.Order, expected uint64) error {
	res := r.db.WithContext(ctx).
		Model(&orderDomain.Order{}).
		Where("id = ? AND version = ?", o.ID, expected).
		Updates(map[string]interface{}{
			"status":            o.Status,
			"version":           expected + 1,
			"status_updated_at": o.StatusUpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return orderDomain.ErrConcurrentModification
	}
	o.Version = expected + 1
	return nil
}

func (r *OrderRepository) AppendTimeline(ctx context.Context, e *orderDomain.TimelineEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *OrderRepository) SetUnderwritingResult(ctx context.Context, result *orderDomain.UnderwritingResult) error {
	err := r.db.WithContext(ctx).Create(result).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return orderDomain.ErrResultExists
	}
	return err
}

func (r *OrderRepository) SetFinancialTerms(ctx context.Context, t *orderDomain.FinancialTerms) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return orderDomain.ErrTermsExist
	}
	return err
}

func (r *OrderRepository) SaveInstallment(ctx context.Context, inst *orderDomain.Installment) error {
	return r.db.WithContext(ctx).
		Model(&orderDomain.Installment{}).
		Where("id = ?", inst.ID).
		Updates(map[string]interface{}{
			"status":  inst.Status,
			"paid_at": inst.PaidAt,
		}).Error
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return orderDomain.ErrNotFound
	}
	return err
}
