package voucher

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountFor calculates the discount the voucher yields against the given
// order total. Percentage discounts are total * value / 100, capped at
// MaxDiscount when one is set; fixed discounts are capped at the total so the
// final amount never goes negative. Unknown types yield zero.
func (v *Voucher) DiscountFor(total decimal.Decimal) decimal.Decimal {
	if v == nil || total.IsNegative() {
		return decimal.Zero
	}

	switch v.Type {
	case DiscountPercentage:
		amount := total.Mul(v.Value).Div(hundred)
		if v.MaxDiscount.IsPositive() {
			amount = decimal.Min(amount, v.MaxDiscount)
		}
		return floorAtZero(amount)
	case DiscountFixed:
		return floorAtZero(decimal.Min(v.Value, total))
	default:
		return decimal.Zero
	}
}

// FinalAmount returns the amount due for an order total after applying the
// voucher, floored at zero. A nil voucher leaves the total unchanged.
//
// This mirrors the computation the server performs when it recomputes order
// totals; the terminal uses it only for optimistic display and for the
// cash-received precondition, never as the persisted value.
func FinalAmount(total decimal.Decimal, v *Voucher) decimal.Decimal {
	return floorAtZero(total.Sub(v.DiscountFor(total)))
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
