package voucher

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported voucher discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the order total, optionally
	// capped by MaxDiscount.
	DiscountPercentage DiscountType = "PERCENTAGE"
	// DiscountFixed subtracts a fixed amount, capped at the order total.
	DiscountFixed DiscountType = "FIXED_AMOUNT"
)

// Voucher is a discount instrument fetched read-only by the terminal.
type Voucher struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Type          DiscountType    `json:"discountType"`
	Value         decimal.Decimal `json:"discountValue"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"` // zero means no minimum
	MaxDiscount   decimal.Decimal `json:"maxDiscount"`   // zero means uncapped; percentage type only
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Quantity      int             `json:"quantity"`
	Active        bool            `json:"active"`
	CustomerID    *int64          `json:"customerId"`
}

// UsableAt reports whether the voucher can be applied to an order with the
// given subtotal at the given time: it must be active, within its validity
// window, have remaining quantity, and the subtotal must meet the minimum
// order value when one is set.
func (v *Voucher) UsableAt(now time.Time, subtotal decimal.Decimal) bool {
	if v == nil || !v.Active {
		return false
	}
	if now.Before(v.StartDate) || now.After(v.EndDate) {
		return false
	}
	if v.Quantity <= 0 {
		return false
	}
	if v.MinOrderValue.IsPositive() && subtotal.LessThan(v.MinOrderValue) {
		return false
	}
	return true
}
