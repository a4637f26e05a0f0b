package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units (cents). All order totals,
// settlement splits and installment portions are carried as Amount so that
// reconciliation is exact integer arithmetic.
type Amount int64

// FromMinor wraps a raw minor-unit value.
func FromMinor(v int64) Amount { return Amount(v) }

// Minor returns the raw minor-unit value.
func (a Amount) Minor() int64 { return int64(a) }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// MulRateFloor multiplies the amount by a fractional rate (e.g. 0.01) and
// floors the result to a whole number of minor units. The rate is lifted into
// decimal arithmetic so values like 0.01 multiply exactly.
func (a Amount) MulRateFloor(rate float64) Amount {
	d := decimal.NewFromInt(int64(a)).Mul(decimal.NewFromFloat(rate)).Floor()
	return Amount(d.IntPart())
}

// MulPercentFloor multiplies the amount by (percent/100 * times) and floors.
// Used for simple interest: principal × monthlyRate% × installments.
func (a Amount) MulPercentFloor(percent float64, times int) Amount {
	d := decimal.NewFromInt(int64(a)).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(times))).
		Floor()
	return Amount(d.IntPart())
}

// DivFloor returns a/n floored. n must be > 0.
func (a Amount) DivFloor(n int) Amount {
	if n <= 0 {
		panic(fmt.Sprintf("money: DivFloor by %d", n))
	}
	v := int64(a) / int64(n)
	if int64(a)%int64(n) != 0 && int64(a) < 0 {
		v--
	}
	return Amount(v)
}

// RatesSumToOne reports whether two fractional rates add up to exactly 1.0
// under decimal arithmetic (no float epsilon games).
func RatesSumToOne(a, b float64) bool {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Equal(decimal.NewFromInt(1))
}
