package applicant

import "context"

// Lookup resolves a customer id to their employment/financial attributes.
// A missing record is not an error: it comes back as Data{Kind:
// KindMissingRecord} so underwriting can reject with an explicit reason.
// A non-nil error means the lookup itself failed (transient).
type Lookup interface {
	GetByCustomerID(ctx context.Context, customerID string) (Data, error)
}
