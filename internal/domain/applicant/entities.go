package applicant

import (
	"time"

	"paya-bnpl-backend/pkg/money"

	"gorm.io/gorm"
)

// Snapshot is the set of attributes underwriting evaluates. Monetary fields
// are minor units per month.
type Snapshot struct {
	Age                     int          `json:"age"`
	MonthlyIncome           money.Amount `json:"monthly_income"`
	YearsEmployed           int          `json:"years_employed"`
	CreditScore             int          `json:"credit_score"`
	DefaultCount            int          `json:"default_count"`
	OtherMonthlyObligations money.Amount `json:"other_monthly_obligations"`
}

// Kind tags the outcome of an applicant lookup. Underwriting must see the
// difference between "no record", "record with gaps" and a complete record;
// missing data is never zero-filled into a Snapshot.
type Kind string

const (
	KindComplete      Kind = "complete"
	KindMissingRecord Kind = "missing_record"
	KindPartialRecord Kind = "partial_record"
)

// Data is the tagged lookup result.
type Data struct {
	Kind          Kind
	Snapshot      Snapshot // meaningful only for Complete / PartialRecord
	MissingFields []string // populated for PartialRecord
}

func Complete(s Snapshot) Data { return Data{Kind: KindComplete, Snapshot: s} }

func MissingRecord() Data { return Data{Kind: KindMissingRecord} }

func PartialRecord(s Snapshot, missing []string) Data {
	return Data{Kind: KindPartialRecord, Snapshot: s, MissingFields: missing}
}

// Profile is the stored employment/financial record, owned by the
// user-profile subsystem. Nullable columns signal fields the customer never
// supplied; the lookup turns those into a PartialRecord.
type Profile struct {
	ID                      uint64         `gorm:"primaryKey;column:id" json:"-"`
	CustomerID              string         `gorm:"size:32;uniqueIndex:ux_profiles_customer_active" json:"customer_id"`
	DateOfBirth             *time.Time     `gorm:"type:date" json:"date_of_birth,omitempty"`
	MonthlyIncome           *int64         `gorm:"column:monthly_income" json:"monthly_income,omitempty"`
	YearsEmployed           *int           `gorm:"column:years_employed" json:"years_employed,omitempty"`
	CreditScore             *int           `gorm:"column:credit_score" json:"credit_score,omitempty"`
	DefaultCount            *int           `gorm:"column:default_count" json:"default_count,omitempty"`
	OtherMonthlyObligations *int64         `gorm:"column:other_monthly_obligations" json:"other_monthly_obligations,omitempty"`
	CreatedAt               time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string { return "customer_profiles" }

// AgeAt computes full years between dob and at.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	anniversary := dob.AddDate(age, 0, 0)
	if anniversary.After(at) {
		age--
	}
	return age
}

// Data converts the stored profile into the tagged lookup result, computing
// age as of `at`. Any nil column lands in MissingFields.
func (p *Profile) Data(at time.Time) Data {
	var s Snapshot
	var missing []string

	if p.DateOfBirth != nil {
		s.Age = AgeAt(*p.DateOfBirth, at)
	} else {
		missing = append(missing, "age")
	}
	if p.MonthlyIncome != nil {
		s.MonthlyIncome = money.Amount(*p.MonthlyIncome)
	} else {
		missing = append(missing, "monthly_income")
	}
	if p.YearsEmployed != nil {
		s.YearsEmployed = *p.YearsEmployed
	} else {
		missing = append(missing, "years_employed")
	}
	if p.CreditScore != nil {
		s.CreditScore = *p.CreditScore
	} else {
		missing = append(missing, "credit_score")
	}
	if p.DefaultCount != nil {
		s.DefaultCount = *p.DefaultCount
	} else {
		missing = append(missing, "default_count")
	}
	if p.OtherMonthlyObligations != nil {
		s.OtherMonthlyObligations = money.Amount(*p.OtherMonthlyObligations)
	} else {
		missing = append(missing, "other_monthly_obligations")
	}

	if len(missing) > 0 {
		return PartialRecord(s, missing)
	}
	return Complete(s)
}
