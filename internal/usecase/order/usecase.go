package order

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"paya-bnpl-backend/internal/domain/applicant"
	domainOrder "paya-bnpl-backend/internal/domain/order"
	"paya-bnpl-backend/internal/domain/uow"
	"paya-bnpl-backend/internal/usecase/finance"
	"paya-bnpl-backend/internal/usecase/underwriting"
	"paya-bnpl-backend/pkg/id"
	"paya-bnpl-backend/pkg/money"
)

type Usecase struct {
	orders     domainOrder.Repository
	applicants applicant.Lookup
	uow        uow.UnitOfWork
	now        func() time.Time
}

// NewUsecase: reads go through the plain repo, writes through the UoW.
func NewUsecase(orders domainOrder.Repository, applicants applicant.Lookup, tx uow.UnitOfWork) *Usecase {
	return &Usecase{orders: orders, applicants: applicants, uow: tx, now: time.Now}
}

func (u *Usecase) Create(ctx context.Context, in CreateOrderInput) (*domainOrder.Order, error) {
	if len(in.CustomerID) != 32 {
		return nil, fmt.Errorf("%w: customer_id must be a 32-char id", domainOrder.ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domainOrder.ErrValidation)
	}

	var total money.Amount
	items := make([]domainOrder.Item, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d quantity must be at least 1", domainOrder.ErrValidation, i)
		}
		if it.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: item %d unit price must be positive", domainOrder.ErrValidation, i)
		}
		total += money.Amount(it.UnitPrice) * money.Amount(it.Quantity)
		items = append(items, domainOrder.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   money.Amount(it.UnitPrice),
			Quantity:    it.Quantity,
			MerchantID:  it.MerchantID,
		})
	}

	now := u.now().UTC()
	o := &domainOrder.Order{
		OrderID:     id.NewID32(),
		OrderNumber: id.NewOrderNumber(now),
		CustomerID:  in.CustomerID,
		Customer:    in.Customer,
		Shipping:    in.Shipping,
		TotalAmount: total,
		Status:      domainOrder.StatusPendingPayment,
		Version:     1,
		Items:       items,
		Timeline: []domainOrder.TimelineEntry{{
			Status:  domainOrder.StatusPendingPayment,
			Note:    "Order created",
			ActorID: in.CustomerID,
			At:      now,
		}},
		StatusUpdatedAt: now,
	}

	if err := u.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (u *Usecase) Get(ctx context.Context, orderID string) (*domainOrder.Order, error) {
	return u.orders.GetByOrderID(ctx, orderID)
}

func (u *Usecase) ListByCustomer(ctx context.Context, customerID string) ([]domainOrder.Order, error) {
	return u.orders.ListByCustomerID(ctx, customerID)
}

// Transition moves the order along one declared edge. Entering underwriting
// is special: the verdict statuses (approved/rejected) are entered by the
// machine itself off the engine result, never on client request. The whole
// transition — side effects, timeline append, status write — commits or
// rolls back as one unit.
func (u *Usecase) Transition(ctx context.Context, in TransitionInput) (*domainOrder.Order, error) {
	target := domainOrder.Status(in.Target)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainOrder.ErrValidation, in.Target)
	}
	if target.SystemDriven() {
		return nil, fmt.Errorf("%w: %s is set by underwriting, not by request", domainOrder.ErrInvalidTransition, target)
	}

	var out *domainOrder.Order
	err := u.uow.WithinOrderTx(ctx, in.OrderID, func(r uow.Repos, o *domainOrder.Order) error {
		if !domainOrder.CanTransition(o.Status, target) {
			return fmt.Errorf("%w: %s -> %s", domainOrder.ErrInvalidTransition, o.Status, target)
		}
		expected := o.Version
		now := u.now().UTC()

		if target == domainOrder.StatusUnderwriting {
			if err := u.runUnderwriting(ctx, r, o, in, now); err != nil {
				return err
			}
		} else {
			o.Status = target
			if err := r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
				OrderRef: o.ID,
				Status:   target,
				Note:     in.Note,
				ActorID:  in.ActorID,
				At:       now,
			}); err != nil {
				return err
			}
		}

		o.StatusUpdatedAt = now
		if err := r.Orders.SaveWithVersion(ctx, o, expected); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// runUnderwriting performs the system-driven sub-transition: evaluate, record
// the set-once result, then advance to approved (attaching financial terms)
// or rejected. Dependent lookups must succeed before anything is written.
func (u *Usecase) runUnderwriting(ctx context.Context, r uow.Repos, o *domainOrder.Order, in TransitionInput, now time.Time) error {
	if o.Result != nil {
		return domainOrder.ErrResultExists
	}

	data, err := u.applicants.GetByCustomerID(ctx, o.CustomerID)
	if err != nil {
		return fmt.Errorf("%w: applicant lookup: %v", domainOrder.ErrDependencyUnavailable, err)
	}
	pol, err := r.Policies.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("%w: underwriting policy: %v", domainOrder.ErrDependencyUnavailable, err)
	}

	verdict, err := underwriting.Evaluate(data, o.TotalAmount, pol.Thresholds())
	if err != nil {
		return fmt.Errorf("%w: %v", domainOrder.ErrValidation, err)
	}

	checks := make([]domainOrder.MetricCheck, 0, len(verdict.Checks))
	for _, c := range verdict.Checks {
		checks = append(checks, domainOrder.MetricCheck{
			Metric:    string(c.Metric),
			Threshold: c.Threshold,
			Actual:    c.Actual,
			Passed:    c.Passed,
		})
	}
	result := &domainOrder.UnderwritingResult{
		OrderRef:      o.ID,
		Approved:      verdict.Approved,
		Reasons:       verdict.Reasons,
		Checks:        checks,
		RecordFound:   verdict.RecordFound,
		PolicyVersion: pol.Version,
		EvaluatedAt:   now,
	}
	if err := r.Orders.SetUnderwritingResult(ctx, result); err != nil {
		return err
	}
	o.Result = result

	o.Status = domainOrder.StatusUnderwriting
	if err := r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
		OrderRef: o.ID,
		Status:   domainOrder.StatusUnderwriting,
		Note:     fmt.Sprintf("Underwriting evaluated against policy v%d", pol.Version),
		ActorID:  in.ActorID,
		At:       now,
	}); err != nil {
		return err
	}

	if !verdict.Approved {
		o.Status = domainOrder.StatusRejected
		return r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
			OrderRef: o.ID,
			Status:   domainOrder.StatusRejected,
			Note:     strings.Join(verdict.Reasons, "; "),
			ActorID:  in.ActorID,
			At:       now,
		})
	}

	if o.Terms != nil {
		return domainOrder.ErrTermsExist
	}
	computed, err := finance.Compute(o.TotalAmount, pol.Interest(), pol.Split(), now)
	if err != nil {
		return fmt.Errorf("%w: %v", domainOrder.ErrValidation, err)
	}
	terms := &domainOrder.FinancialTerms{
		OrderRef:        o.ID,
		MerchantAdvance: computed.MerchantAdvance,
		PlatformFee:     computed.PlatformFee,
		TotalInterest:   computed.TotalInterest,
		TotalRepayable:  computed.TotalRepayable,
		PolicyVersion:   pol.Version,
		ApprovedAt:      now,
	}
	for _, inst := range computed.Installments {
		terms.Installments = append(terms.Installments, domainOrder.Installment{
			Number:    inst.Number,
			DueDate:   inst.DueDate,
			Principal: inst.Principal,
			Interest:  inst.Interest,
			Total:     inst.Total,
			Status:    domainOrder.InstallmentPending,
		})
	}
	if err := r.Orders.SetFinancialTerms(ctx, terms); err != nil {
		return err
	}
	o.Terms = terms

	o.Status = domainOrder.StatusApproved
	return r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
		OrderRef: o.ID,
		Status:   domainOrder.StatusApproved,
		Note:     fmt.Sprintf("Approved; financing terms attached (repayable %d over %d installments)", computed.TotalRepayable, len(computed.Installments)),
		ActorID:  in.ActorID,
		At:       now,
	})
}

// Override is the audited exception path for administrators. It bypasses the
// declared edge set but still refuses the verdict statuses — there is no way
// to fabricate an approval or skip underwriting into approved.
func (u *Usecase) Override(ctx context.Context, in OverrideInput) (*domainOrder.Order, error) {
	target := domainOrder.Status(in.Target)
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainOrder.ErrValidation, in.Target)
	}
	if target.SystemDriven() || target == domainOrder.StatusUnderwriting {
		return nil, fmt.Errorf("%w: %s cannot be set by override", domainOrder.ErrInvalidTransition, target)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: override reason is required", domainOrder.ErrValidation)
	}

	var out *domainOrder.Order
	err := u.uow.WithinOrderTx(ctx, in.OrderID, func(r uow.Repos, o *domainOrder.Order) error {
		expected := o.Version
		now := u.now().UTC()
		from := o.Status

		o.Status = target
		o.StatusUpdatedAt = now
		if err := r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
			OrderRef: o.ID,
			Status:   target,
			Note:     fmt.Sprintf("ADMIN OVERRIDE %s -> %s: %s", from, target, in.Reason),
			ActorID:  in.ActorID,
			Override: true,
			At:       now,
		}); err != nil {
			return err
		}
		if err := r.Orders.SaveWithVersion(ctx, o, expected); err != nil {
			return err
		}
		log.Printf("audit: order %s status override %s -> %s by %s: %s", o.OrderID, from, target, in.ActorID, in.Reason)
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordInstallmentPayment marks one installment paid, earliest-unpaid first.
// The order status itself does not change; the payment lands in the timeline.
func (u *Usecase) RecordInstallmentPayment(ctx context.Context, in PaymentInput) (*domainOrder.Order, error) {
	var out *domainOrder.Order
	err := u.uow.WithinOrderTx(ctx, in.OrderID, func(r uow.Repos, o *domainOrder.Order) error {
		if o.Terms == nil {
			return fmt.Errorf("%w: order has no financing terms", domainOrder.ErrValidation)
		}
		if !repayable(o.Status) {
			return fmt.Errorf("%w: repayment not accepted while order is %s", domainOrder.ErrValidation, o.Status)
		}

		var target *domainOrder.Installment
		for i := range o.Terms.Installments {
			inst := &o.Terms.Installments[i]
			if inst.Number == in.Number {
				target = inst
				continue
			}
			if inst.Number < in.Number && inst.Status != domainOrder.InstallmentPaid {
				return fmt.Errorf("%w: installment %d", domainOrder.ErrInstallmentOutOfOrder, inst.Number)
			}
		}
		if target == nil {
			return fmt.Errorf("%w: installment %d", domainOrder.ErrValidation, in.Number)
		}
		if target.Status == domainOrder.InstallmentPaid {
			return domainOrder.ErrInstallmentPaid
		}

		now := u.now().UTC()
		target.Status = domainOrder.InstallmentPaid
		target.PaidAt = &now
		if err := r.Orders.SaveInstallment(ctx, target); err != nil {
			return err
		}
		if err := r.Orders.AppendTimeline(ctx, &domainOrder.TimelineEntry{
			OrderRef: o.ID,
			Status:   o.Status,
			Note:     fmt.Sprintf("Installment %d/%d paid (%d)", target.Number, len(o.Terms.Installments), target.Total),
			ActorID:  in.ActorID,
			At:       now,
		}); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func repayable(s domainOrder.Status) bool {
	switch s {
	case domainOrder.StatusPaid, domainOrder.StatusProcessing, domainOrder.StatusShipped, domainOrder.StatusDelivered:
		return true
	}
	return false
}
