package order

import "errors"

var (
	// ErrNotFound: no order with the given public id.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidTransition: requested edge is not in the declared set (or the
	// target status is system-driven). Permanent; retrying the same input
	// cannot succeed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification: version token mismatch on write. Retryable
	// against freshly-read state.
	ErrConcurrentModification = errors.New("order modified concurrently")

	// ErrDependencyUnavailable: a dependent lookup (applicant record, policy)
	// failed transiently before the status mutation committed. Retryable.
	ErrDependencyUnavailable = errors.New("dependent service unavailable")

	// ErrValidation: malformed input (empty items, non-positive principal,
	// split rates not summing to 1.0, ...). Permanent.
	ErrValidation = errors.New("invalid input")

	// ErrResultExists: the set-once underwriting result is already attached.
	ErrResultExists = errors.New("underwriting result already recorded")

	// ErrTermsExist: the set-once financial terms are already attached.
	ErrTermsExist = errors.New("financial terms already recorded")

	// ErrInstallmentPaid: the installment was already marked paid.
	ErrInstallmentPaid = errors.New("installment already paid")

	// ErrInstallmentOutOfOrder: an earlier installment is still unpaid.
	ErrInstallmentOutOfOrder = errors.New("earlier installment still unpaid")
)
