package order

// Status is the canonical order lifecycle state. The string values are the
// stable wire-level enum and also what lands in the `status` column and in
// timeline entries.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusUnderwriting   Status = "underwriting"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusPaid           Status = "paid"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// AllStatuses in declaration order.
var AllStatuses = []Status{
	StatusPendingPayment,
	StatusUnderwriting,
	StatusApproved,
	StatusRejected,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// transitions is the single declared edge set. Every status mutation in the
// system goes through CanTransition; there is no other write path.
var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusUnderwriting, StatusCancelled},
	StatusUnderwriting:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:       {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusDelivered},
	// rejected, delivered, cancelled: terminal, no outbound edges
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outbound edges.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// SystemDriven reports whether s may only be entered by the state machine
// itself (as the outcome of an underwriting evaluation), never on direct
// client request.
func (s Status) SystemDriven() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether (from, to) is a declared edge.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
