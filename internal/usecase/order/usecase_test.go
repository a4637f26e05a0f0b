package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"paya-bnpl-backend/internal/domain/applicant"
	domainOrder "paya-bnpl-backend/internal/domain/order"
	domainPolicy "paya-bnpl-backend/internal/domain/policy"
	"paya-bnpl-backend/internal/domain/uow"
	"paya-bnpl-backend/internal/testutil/applicantmock"
	"paya-bnpl-backend/internal/testutil/ordermock"
	"paya-bnpl-backend/internal/testutil/policymock"
	"paya-bnpl-backend/internal/testutil/uowmock"
)

const (
	testCustomerID = "cccccccccccccccccccccccccccccccc"
	testOrderID    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func testPolicy() *domainPolicy.Policy {
	return &domainPolicy.Policy{
		Version:             3,
		Active:              true,
		MinAge:              18,
		MinMonthlyIncome:    15_000,
		MinYearsEmployed:    1,
		MinCreditScore:      600,
		MaxDefaults:         1,
		MaxOtherObligations: 5_000,
		MonthlyRatePercent:  8,
		NumInstallments:     4,
		MerchantAdvanceRate: 0.99,
		PlatformFeeRate:     0.01,
	}
}

func goodApplicant() applicant.Data {
	return applicant.Complete(applicant.Snapshot{
		Age:                     30,
		MonthlyIncome:           20_000,
		YearsEmployed:           2,
		CreditScore:             650,
		DefaultCount:            0,
		OtherMonthlyObligations: 1_000,
	})
}

func pendingOrder() *domainOrder.Order {
	return &domainOrder.Order{
		ID:          77,
		OrderID:     testOrderID,
		CustomerID:  testCustomerID,
		TotalAmount: 10_000,
		Status:      domainOrder.StatusPendingPayment,
		Version:     1,
	}
}

// makeUoW wires a fake transaction around one in-memory order.
func makeUoW(o *domainOrder.Order, orders *ordermock.Repo, pols *policymock.Repo) *uowmock.UoW {
	return &uowmock.UoW{
		WithinOrderTxFn: func(ctx context.Context, orderID string, fn func(r uow.Repos, o *domainOrder.Order) error) error {
			if o == nil || o.OrderID != orderID {
				return domainOrder.ErrNotFound
			}
			return fn(uow.Repos{Orders: orders, Policies: pols}, o)
		},
	}
}

func TestTransition_UnderwritingApproves(t *testing.T) {
	o := pendingOrder()
	var timeline []domainOrder.TimelineEntry
	var savedExpected uint64

	orders := &ordermock.Repo{
		AppendTimelineFn: func(ctx context.Context, e *domainOrder.TimelineEntry) error {
			timeline = append(timeline, *e)
			return nil
		},
		SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
			savedExpected = expected
			o.Version = expected + 1
			return nil
		},
	}
	pols := &policymock.Repo{
		GetActiveFn: func(ctx context.Context) (*domainPolicy.Policy, error) { return testPolicy(), nil },
	}
	applicants := &applicantmock.Lookup{
		GetByCustomerIDFn: func(ctx context.Context, customerID string) (applicant.Data, error) {
			if customerID != testCustomerID {
				t.Fatalf("lookup for wrong customer %s", customerID)
			}
			return goodApplicant(), nil
		},
	}

	uc := NewUsecase(orders, applicants, makeUoW(o, orders, pols))
	uc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }

	got, err := uc.Transition(context.Background(), TransitionInput{
		OrderID: testOrderID, Target: "underwriting", ActorID: testCustomerID,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domainOrder.StatusApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}
	if got.Result == nil || !got.Result.Approved {
		t.Fatalf("underwriting result missing or not approved: %+v", got.Result)
	}
	if got.Result.PolicyVersion != 3 {
		t.Errorf("result policy version = %d, want 3", got.Result.PolicyVersion)
	}
	if got.Terms == nil {
		t.Fatal("financial terms must attach on approval")
	}
	if got.Terms.MerchantAdvance != 9_900 || got.Terms.PlatformFee != 100 {
		t.Errorf("split = %d/%d, want 9900/100", got.Terms.MerchantAdvance, got.Terms.PlatformFee)
	}
	if got.Terms.TotalRepayable != 13_200 || len(got.Terms.Installments) != 4 {
		t.Errorf("terms = %+v", got.Terms)
	}
	if savedExpected != 1 {
		t.Errorf("SaveWithVersion expected token = %d, want 1", savedExpected)
	}
	// timeline: underwriting, then approved — latest matches final status
	if len(timeline) != 2 {
		t.Fatalf("want 2 timeline entries, got %d", len(timeline))
	}
	if timeline[0].Status != domainOrder.StatusUnderwriting || timeline[1].Status != domainOrder.StatusApproved {
		t.Fatalf("timeline statuses = %s, %s", timeline[0].Status, timeline[1].Status)
	}
}

func TestTransition_UnderwritingRejects(t *testing.T) {
	o := pendingOrder()
	var timeline []domainOrder.TimelineEntry
	termsSet := false

	orders := &ordermock.Repo{
		AppendTimelineFn: func(ctx context.Context, e *domainOrder.TimelineEntry) error {
			timeline = append(timeline, *e)
			return nil
		},
		SetFinancialTermsFn: func(ctx context.Context, ft *domainOrder.FinancialTerms) error {
			termsSet = true
			return nil
		},
	}
	pols := &policymock.Repo{
		GetActiveFn: func(ctx context.Context) (*domainPolicy.Policy, error) { return testPolicy(), nil },
	}
	bad := goodApplicant()
	bad.Snapshot.CreditScore = 500
	applicants := &applicantmock.Lookup{
		GetByCustomerIDFn: func(ctx context.Context, customerID string) (applicant.Data, error) {
			return bad, nil
		},
	}

	uc := NewUsecase(orders, applicants, makeUoW(o, orders, pols))
	got, err := uc.Transition(context.Background(), TransitionInput{
		OrderID: testOrderID, Target: "underwriting", ActorID: testCustomerID,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domainOrder.StatusRejected {
		t.Fatalf("status = %s, want rejected", got.Status)
	}
	if got.Result == nil || got.Result.Approved {
		t.Fatalf("result should record the rejection: %+v", got.Result)
	}
	if len(got.Result.Reasons) != 1 || !strings.Contains(got.Result.Reasons[0], "Credit score") {
		t.Fatalf("reasons = %v", got.Result.Reasons)
	}
	if termsSet || got.Terms != nil {
		t.Fatal("rejected orders must not get financial terms")
	}
	if timeline[len(timeline)-1].Status != domainOrder.StatusRejected {
		t.Fatalf("latest timeline entry = %s, want rejected", timeline[len(timeline)-1].Status)
	}
}

func TestTransition_MissingApplicantRecordHardRejects(t *testing.T) {
	o := pendingOrder()
	orders := &ordermock.Repo{}
	pols := &policymock.Repo{
		GetActiveFn: func(ctx context.Context) (*domainPolicy.Policy, error) { return testPolicy(), nil },
	}
	applicants := &applicantmock.Lookup{
		GetByCustomerIDFn: func(ctx context.Context, customerID string) (applicant.Data, error) {
			return applicant.MissingRecord(), nil
		},
	}

	uc := NewUsecase(orders, applicants, makeUoW(o, orders, pols))
	got, err := uc.Transition(context.Background(), TransitionInput{
		OrderID: testOrderID, Target: "underwriting", ActorID: testCustomerID,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domainOrder.StatusRejected {
		t.Fatalf("status = %s, want rejected", got.Status)
	}
	if got.Result.RecordFound {
		t.Fatal("RecordFound must be false for a missing employment record")
	}
	if len(got.Result.Reasons) == 0 {
		t.Fatal("missing record must carry an explicit reason")
	}
}

func TestTransition_VerdictStatusesNotClientRequestable(t *testing.T) {
	uc := NewUsecase(&ordermock.Repo{}, &applicantmock.Lookup{}, makeUoW(pendingOrder(), &ordermock.Repo{}, &policymock.Repo{}))
	for _, target := range []string{"approved", "rejected"} {
		_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: target})
		if !errors.Is(err, domainOrder.ErrInvalidTransition) {
			t.Fatalf("target %s: want ErrInvalidTransition, got %v", target, err)
		}
	}
}

func TestTransition_UndeclaredEdge(t *testing.T) {
	tests := []struct {
		name   string
		status domainOrder.Status
		target string
	}{
		{"pending to delivered", domainOrder.StatusPendingPayment, "delivered"},
		{"rejected is terminal", domainOrder.StatusRejected, "underwriting"},
		{"shipped cannot cancel", domainOrder.StatusShipped, "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := pendingOrder()
			o.Status = tt.status
			orders := &ordermock.Repo{
				SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
					t.Fatal("must not save on invalid transition")
					return nil
				},
			}
			uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))
			_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: tt.target})
			if !errors.Is(err, domainOrder.ErrInvalidTransition) {
				t.Fatalf("want ErrInvalidTransition, got %v", err)
			}
			if o.Status != tt.status {
				t.Fatalf("status must stay %s, got %s", tt.status, o.Status)
			}
		})
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	uc := NewUsecase(&ordermock.Repo{}, &applicantmock.Lookup{}, &uowmock.UoW{})
	_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: "refunded"})
	if !errors.Is(err, domainOrder.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestTransition_OrderNotFound(t *testing.T) {
	uc := NewUsecase(&ordermock.Repo{}, &applicantmock.Lookup{}, makeUoW(nil, &ordermock.Repo{}, &policymock.Repo{}))
	_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: "underwriting"})
	if !errors.Is(err, domainOrder.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTransition_ApplicantLookupFailureAbortsBeforeMutation(t *testing.T) {
	o := pendingOrder()
	orders := &ordermock.Repo{
		SetUnderwritingResultFn: func(ctx context.Context, r *domainOrder.UnderwritingResult) error {
			t.Fatal("no result may be written when the lookup fails")
			return nil
		},
		AppendTimelineFn: func(ctx context.Context, e *domainOrder.TimelineEntry) error {
			t.Fatal("no timeline entry may be written when the lookup fails")
			return nil
		},
		SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
			t.Fatal("no save may happen when the lookup fails")
			return nil
		},
	}
	pols := &policymock.Repo{
		GetActiveFn: func(ctx context.Context) (*domainPolicy.Policy, error) { return testPolicy(), nil },
	}
	applicants := &applicantmock.Lookup{
		GetByCustomerIDFn: func(ctx context.Context, customerID string) (applicant.Data, error) {
			return applicant.Data{}, errors.New("profile service timeout")
		},
	}

	uc := NewUsecase(orders, applicants, makeUoW(o, orders, pols))
	_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: "underwriting"})
	if !errors.Is(err, domainOrder.ErrDependencyUnavailable) {
		t.Fatalf("want ErrDependencyUnavailable, got %v", err)
	}
	if o.Status != domainOrder.StatusPendingPayment {
		t.Fatalf("status must stay pending_payment, got %s", o.Status)
	}
}

func TestTransition_ConcurrentModificationSurfaces(t *testing.T) {
	o := pendingOrder()
	o.Status = domainOrder.StatusPaid
	orders := &ordermock.Repo{
		SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
			return domainOrder.ErrConcurrentModification
		},
	}
	uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))
	_, err := uc.Transition(context.Background(), TransitionInput{OrderID: testOrderID, Target: "processing"})
	if !errors.Is(err, domainOrder.ErrConcurrentModification) {
		t.Fatalf("want ErrConcurrentModification, got %v", err)
	}
}

func TestTransition_PlainFulfillmentEdge(t *testing.T) {
	o := pendingOrder()
	o.Status = domainOrder.StatusPaid
	var entry *domainOrder.TimelineEntry
	orders := &ordermock.Repo{
		AppendTimelineFn: func(ctx context.Context, e *domainOrder.TimelineEntry) error {
			entry = e
			return nil
		},
		SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
			o.Version = expected + 1
			return nil
		},
	}
	uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))
	got, err := uc.Transition(context.Background(), TransitionInput{
		OrderID: testOrderID, Target: "processing", ActorID: "mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm", Note: "packing",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domainOrder.StatusProcessing {
		t.Fatalf("status = %s", got.Status)
	}
	if entry == nil || entry.Status != domainOrder.StatusProcessing || entry.Note != "packing" {
		t.Fatalf("timeline entry = %+v", entry)
	}
	if got.Version != 2 {
		t.Fatalf("version = %d, want 2", got.Version)
	}
}

func TestCreate(t *testing.T) {
	var created *domainOrder.Order
	orders := &ordermock.Repo{
		CreateFn: func(ctx context.Context, o *domainOrder.Order) error {
			created = o
			return nil
		},
	}
	uc := NewUsecase(orders, &applicantmock.Lookup{}, &uowmock.UoW{})

	in := CreateOrderInput{
		CustomerID: testCustomerID,
		Items: []ItemInput{
			{ProductName: "Laptop", UnitPrice: 4_000, Quantity: 2, MerchantID: "mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm"},
			{ProductName: "Mouse", UnitPrice: 2_000, Quantity: 1, MerchantID: "mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm"},
		},
	}
	got, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created == nil {
		t.Fatal("repo.Create not called")
	}
	if got.TotalAmount != 10_000 {
		t.Fatalf("total = %d, want 10000", got.TotalAmount)
	}
	if got.Status != domainOrder.StatusPendingPayment {
		t.Fatalf("status = %s", got.Status)
	}
	if len(got.OrderID) != 32 {
		t.Fatalf("order id = %q", got.OrderID)
	}
	if !strings.HasPrefix(got.OrderNumber, "PY-") {
		t.Fatalf("order number = %q", got.OrderNumber)
	}
	if len(got.Timeline) != 1 || got.Timeline[0].Status != domainOrder.StatusPendingPayment {
		t.Fatalf("initial timeline = %+v", got.Timeline)
	}
}

func TestCreate_Validation(t *testing.T) {
	uc := NewUsecase(&ordermock.Repo{}, &applicantmock.Lookup{}, &uowmock.UoW{})
	tests := []struct {
		name string
		in   CreateOrderInput
	}{
		{"bad customer id", CreateOrderInput{CustomerID: "short", Items: []ItemInput{{ProductName: "x", UnitPrice: 1, Quantity: 1}}}},
		{"no items", CreateOrderInput{CustomerID: testCustomerID}},
		{"zero quantity", CreateOrderInput{CustomerID: testCustomerID, Items: []ItemInput{{ProductName: "x", UnitPrice: 1, Quantity: 0}}}},
		{"zero price", CreateOrderInput{CustomerID: testCustomerID, Items: []ItemInput{{ProductName: "x", UnitPrice: 0, Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Create(context.Background(), tt.in); !errors.Is(err, domainOrder.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	o := pendingOrder()
	o.Status = domainOrder.StatusUnderwriting
	var entry *domainOrder.TimelineEntry
	orders := &ordermock.Repo{
		AppendTimelineFn: func(ctx context.Context, e *domainOrder.TimelineEntry) error {
			entry = e
			return nil
		},
		SaveWithVersionFn: func(ctx context.Context, o *domainOrder.Order, expected uint64) error {
			o.Version = expected + 1
			return nil
		},
	}
	uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))

	got, err := uc.Override(context.Background(), OverrideInput{
		OrderID: testOrderID, Target: "cancelled", ActorID: "adminadminadminadminadminadmin12", Reason: "fraud hold",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domainOrder.StatusCancelled {
		t.Fatalf("status = %s", got.Status)
	}
	if entry == nil || !entry.Override {
		t.Fatalf("override timeline entry must be flagged: %+v", entry)
	}
	if !strings.Contains(entry.Note, "fraud hold") {
		t.Fatalf("note must carry the reason: %q", entry.Note)
	}
}

func TestOverride_Guards(t *testing.T) {
	uc := NewUsecase(&ordermock.Repo{}, &applicantmock.Lookup{}, &uowmock.UoW{})
	tests := []struct {
		name string
		in   OverrideInput
		want error
	}{
		{"cannot fabricate approval", OverrideInput{OrderID: testOrderID, Target: "approved", Reason: "x"}, domainOrder.ErrInvalidTransition},
		{"cannot fabricate rejection", OverrideInput{OrderID: testOrderID, Target: "rejected", Reason: "x"}, domainOrder.ErrInvalidTransition},
		{"cannot skip into underwriting", OverrideInput{OrderID: testOrderID, Target: "underwriting", Reason: "x"}, domainOrder.ErrInvalidTransition},
		{"reason required", OverrideInput{OrderID: testOrderID, Target: "cancelled", Reason: "  "}, domainOrder.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Override(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func paidOrderWithTerms() *domainOrder.Order {
	o := pendingOrder()
	o.Status = domainOrder.StatusPaid
	o.Terms = &domainOrder.FinancialTerms{
		OrderRef:       o.ID,
		TotalRepayable: 13_200,
		Installments: []domainOrder.Installment{
			{Number: 1, Total: 3_300, Status: domainOrder.InstallmentPaid},
			{Number: 2, Total: 3_300, Status: domainOrder.InstallmentPending},
			{Number: 3, Total: 3_300, Status: domainOrder.InstallmentPending},
			{Number: 4, Total: 3_300, Status: domainOrder.InstallmentPending},
		},
	}
	return o
}

func TestRecordInstallmentPayment(t *testing.T) {
	o := paidOrderWithTerms()
	var saved *domainOrder.Installment
	orders := &ordermock.Repo{
		SaveInstallmentFn: func(ctx context.Context, inst *domainOrder.Installment) error {
			saved = inst
			return nil
		},
	}
	uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))

	got, err := uc.RecordInstallmentPayment(context.Background(), PaymentInput{OrderID: testOrderID, Number: 2, ActorID: testCustomerID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if saved == nil || saved.Number != 2 || saved.Status != domainOrder.InstallmentPaid || saved.PaidAt == nil {
		t.Fatalf("saved installment = %+v", saved)
	}
	if got.Status != domainOrder.StatusPaid {
		t.Fatalf("order status must not change, got %s", got.Status)
	}
}

func TestRecordInstallmentPayment_Guards(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domainOrder.Order)
		number int
		want   error
	}{
		{"already paid", nil, 1, domainOrder.ErrInstallmentPaid},
		{"out of order", nil, 3, domainOrder.ErrInstallmentOutOfOrder},
		{"unknown number", func(o *domainOrder.Order) {
			for i := range o.Terms.Installments {
				o.Terms.Installments[i].Status = domainOrder.InstallmentPaid
			}
		}, 9, domainOrder.ErrValidation},
		{"no terms", func(o *domainOrder.Order) { o.Terms = nil }, 1, domainOrder.ErrValidation},
		{"not yet paid status", func(o *domainOrder.Order) { o.Status = domainOrder.StatusApproved }, 2, domainOrder.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := paidOrderWithTerms()
			if tt.mutate != nil {
				tt.mutate(o)
			}
			orders := &ordermock.Repo{}
			uc := NewUsecase(orders, &applicantmock.Lookup{}, makeUoW(o, orders, &policymock.Repo{}))
			_, err := uc.RecordInstallmentPayment(context.Background(), PaymentInput{OrderID: testOrderID, Number: tt.number})
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}
