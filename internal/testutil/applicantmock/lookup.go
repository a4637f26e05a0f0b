package applicantmock

import (
	"context"

	domain "paya-bnpl-backend/internal/domain/applicant"
)

// Lookup is a function-backed mock that satisfies domain.Lookup.
type Lookup struct {
	GetByCustomerIDFn func(ctx context.Context, customerID string) (domain.Data, error)
}

func (m *Lookup) GetByCustomerID(ctx context.Context, customerID string) (domain.Data, error) {
	if m.GetByCustomerIDFn != nil {
		return m.GetByCustomerIDFn(ctx, customerID)
	}
	return domain.MissingRecord(), nil
}
