package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the lifecycle states of a pending order as observed by
// the terminal. COMPLETED and CANCELLED are terminal: the client never issues
// another mutation against an order in either state.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

// Terminal reports whether the status permits no further mutation.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentMethod enumerates the payment methods supported at the counter.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "CASH"
	MethodVnpayQR PaymentMethod = "VNPAY_QR"
)

// PaymentStatus enumerates the payment states of an order.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

// Line is a single product-detail + quantity entry within a pending order.
type Line struct {
	ProductDetailID int64           `json:"productDetailId"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Discount        decimal.Decimal `json:"discount"`
}

// PendingOrder is the in-progress cart being built at a terminal. The server
// owns the authoritative copy; instances held by the client are snapshots.
type PendingOrder struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Status        Status          `json:"status"`
	Lines         []Line          `json:"orderDetails"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"totalDiscount"`
	Total         decimal.Decimal `json:"totalAmount"`
	CustomerID    *int64          `json:"customerId"`
	VoucherID     *int64          `json:"voucherId"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// HasLines reports whether the order carries at least one line item.
func (o *PendingOrder) HasLines() bool {
	return o != nil && len(o.Lines) > 0
}
