package order

import "context"

type Repository interface {
	// Create persists the order with its items and initial timeline entry.
	Create(ctx context.Context, o *Order) error
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	// GetByOrderIDForUpdate locks the order row (SELECT ... FOR UPDATE) for
	// the duration of the surrounding transaction.
	GetByOrderIDForUpdate(ctx context.Context, orderID string) (*Order, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]Order, error)

	// SaveWithVersion writes the order iff the stored version still equals
	// expected, bumping it by one. Returns ErrConcurrentModification on a
	// stale token.
	SaveWithVersion(ctx context.Context, o *Order, expected uint64) error

	AppendTimeline(ctx context.Context, e *TimelineEntry) error
	SetUnderwritingResult(ctx context.Context, r *UnderwritingResult) error
	SetFinancialTerms(ctx context.Context, t *FinancialTerms) error
	SaveInstallment(ctx context.Context, inst *Installment) error
}
