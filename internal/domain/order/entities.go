package order

import (
	"time"

	"paya-bnpl-backend/pkg/money"

	"gorm.io/gorm"
)

// CustomerSnapshot is the identity data captured at checkout. Immutable once
// the order exists; later profile edits never rewrite history.
type CustomerSnapshot struct {
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Email     string `gorm:"size:255" json:"email"`
	Phone     string `gorm:"size:32" json:"phone"`
}

type ShippingAddress struct {
	Street     string `gorm:"size:255" json:"street"`
	City       string `gorm:"size:100" json:"city"`
	County     string `gorm:"size:100" json:"county"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
	Country    string `gorm:"size:100;default:Kenya" json:"country"`
}

type Order struct {
	ID          uint64           `gorm:"primaryKey;column:id" json:"-"`
	OrderID     string           `gorm:"size:32;uniqueIndex:ux_orders_order_id_active" json:"order_id"`
	OrderNumber string           `gorm:"size:20;uniqueIndex:ux_orders_order_number" json:"order_number"`
	CustomerID  string           `gorm:"size:32;index:idx_orders_customer" json:"customer_id"`
	Customer    CustomerSnapshot `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Shipping    ShippingAddress  `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	// TotalAmount is the BNPL principal in minor units, fixed at creation:
	// Σ item.UnitPrice × item.Quantity.
	TotalAmount money.Amount `gorm:"column:total_amount;not null" json:"total_amount"`

	Status Status `gorm:"type:enum('pending_payment','underwriting','approved','rejected','paid','processing','shipped','delivered','cancelled');default:'pending_payment';index" json:"status"`

	// Version is the optimistic-concurrency token; every committed transition
	// increments it.
	Version uint64 `gorm:"not null;default:1" json:"version"`

	Items    []Item              `gorm:"foreignKey:OrderRef" json:"items"`
	Timeline []TimelineEntry     `gorm:"foreignKey:OrderRef" json:"timeline"`
	Result   *UnderwritingResult `gorm:"foreignKey:OrderRef" json:"underwriting_result,omitempty"`
	Terms    *FinancialTerms     `gorm:"foreignKey:OrderRef" json:"financial_terms,omitempty"`

	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string { return "orders" }

type Item struct {
	ID          uint64       `gorm:"primaryKey;column:id" json:"-"`
	OrderRef    uint64       `gorm:"column:order_ref;not null;index" json:"-"`
	ProductID   string       `gorm:"size:32" json:"product_id"`
	ProductName string       `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   money.Amount `gorm:"column:unit_price;not null" json:"unit_price"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	MerchantID  string       `gorm:"size:32;index" json:"merchant_id"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"-"`
}

func (Item) TableName() string { return "order_items" }

// TimelineEntry is one row of the append-only audit log. Entries are never
// edited or removed; the latest entry's status always equals Order.Status.
type TimelineEntry struct {
	ID       uint64    `gorm:"primaryKey;column:id" json:"-"`
	OrderRef uint64    `gorm:"column:order_ref;not null;index" json:"-"`
	Status   Status    `gorm:"size:32;not null" json:"status"`
	Note     string    `gorm:"type:text" json:"note"`
	ActorID  string    `gorm:"size:32" json:"actor_id"`
	Override bool      `gorm:"not null;default:false" json:"override,omitempty"`
	At       time.Time `gorm:"column:at;not null" json:"timestamp"`
}

func (TimelineEntry) TableName() string { return "timeline_entries" }

// MetricCheck is the persisted per-metric underwriting outcome.
type MetricCheck struct {
	Metric    string `json:"metric"`
	Threshold int64  `json:"threshold"`
	Actual    int64  `json:"actual"`
	Passed    bool   `json:"passed"`
}

// UnderwritingResult is set exactly once, when the order enters underwriting.
// The unique index on order_ref backs the set-once rule at the DB level.
type UnderwritingResult struct {
	ID            uint64        `gorm:"primaryKey;column:id" json:"-"`
	OrderRef      uint64        `gorm:"column:order_ref;not null;uniqueIndex:ux_uw_results_order" json:"-"`
	Approved      bool          `gorm:"not null" json:"approved"`
	Reasons       []string      `gorm:"type:text;serializer:json" json:"reasons"`
	Checks        []MetricCheck `gorm:"type:text;serializer:json" json:"checks"`
	RecordFound   bool          `gorm:"not null;default:true" json:"record_found"`
	PolicyVersion int           `gorm:"not null" json:"policy_version"`
	EvaluatedAt   time.Time     `gorm:"not null" json:"evaluated_at"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"-"`
}

func (UnderwritingResult) TableName() string { return "underwriting_results" }

// FinancialTerms is set exactly once, when the order reaches approved.
type FinancialTerms struct {
	ID              uint64        `gorm:"primaryKey;column:id" json:"-"`
	OrderRef        uint64        `gorm:"column:order_ref;not null;uniqueIndex:ux_fin_terms_order" json:"-"`
	MerchantAdvance money.Amount  `gorm:"column:merchant_advance;not null" json:"merchant_advance_amount"`
	PlatformFee     money.Amount  `gorm:"column:platform_fee;not null" json:"platform_fee_amount"`
	TotalInterest   money.Amount  `gorm:"column:total_interest;not null" json:"total_interest"`
	TotalRepayable  money.Amount  `gorm:"column:total_repayable;not null" json:"total_repayable"`
	PolicyVersion   int           `gorm:"not null" json:"policy_version"`
	ApprovedAt      time.Time     `gorm:"not null" json:"approved_at"`
	Installments    []Installment `gorm:"foreignKey:TermsRef" json:"installments"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"-"`
}

func (FinancialTerms) TableName() string { return "financial_terms" }

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

type Installment struct {
	ID        uint64            `gorm:"primaryKey;column:id" json:"-"`
	TermsRef  uint64            `gorm:"column:terms_ref;not null;index" json:"-"`
	Number    int               `gorm:"not null" json:"number"`
	DueDate   time.Time         `gorm:"type:date;not null" json:"due_date"`
	Principal money.Amount      `gorm:"column:principal_portion;not null" json:"principal_portion"`
	Interest  money.Amount      `gorm:"column:interest_portion;not null" json:"interest_portion"`
	Total     money.Amount      `gorm:"column:total_amount;not null" json:"total_amount"`
	Status    InstallmentStatus `gorm:"size:16;default:'pending'" json:"status"`
	PaidAt    *time.Time        `gorm:"column:paid_at" json:"paid_at,omitempty"`
}

func (Installment) TableName() string { return "installments" }
