package posapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/order"
)

// CreateOrderRequest is the payload for opening a new pending order.
type CreateOrderRequest struct {
	CustomerID    *int64              `json:"customerId,omitempty"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	VoucherID     *int64              `json:"voucherId,omitempty"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	PaymentStatus order.PaymentStatus `json:"paymentStatus"`
	Note          string              `json:"note,omitempty"`
	StaffID       int64               `json:"staffId"`
}

// UpdateOrderRequest is a partial update of a pending order. Only fields
// whose Set flag is true are serialized, so unset fields stay untouched
// server-side while explicit nils (guest customer, voucher removal) are sent
// as JSON null. SetLines replaces the entire line array, never a delta.
type UpdateOrderRequest struct {
	SetCustomer bool
	CustomerID  *int64
	SetVoucher  bool
	VoucherID   *int64
	SetNote     bool
	Note        string
	SetLines    bool
	Lines       []order.Line

	PaymentMethod order.PaymentMethod // empty means unchanged
	PaymentStatus order.PaymentStatus // empty means unchanged
}

// MarshalJSON emits only the fields the caller marked as set.
func (r UpdateOrderRequest) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if r.SetCustomer {
		m["customerId"] = r.CustomerID
	}
	if r.SetVoucher {
		m["voucherId"] = r.VoucherID
	}
	if r.SetNote {
		m["note"] = r.Note
	}
	if r.SetLines {
		lines := r.Lines
		if lines == nil {
			lines = []order.Line{}
		}
		m["orderDetails"] = lines
	}
	if r.PaymentMethod != "" {
		m["paymentMethod"] = r.PaymentMethod
	}
	if r.PaymentStatus != "" {
		m["paymentStatus"] = r.PaymentStatus
	}
	return json.Marshal(m)
}

// CompleteOrderRequest is the payload for finalizing a pending order.
type CompleteOrderRequest struct {
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	AmountPaid    decimal.Decimal     `json:"amountPaid"`
	ChangeAmount  decimal.Decimal     `json:"changeAmount"`
	VoucherID     *int64              `json:"voucherId,omitempty"`
	PaymentNote   string              `json:"paymentNote,omitempty"`
	OrderNote     string              `json:"orderNote,omitempty"`
}

// ListOrdersParams filters the pending-orders list.
type ListOrdersParams struct {
	CustomerID int64
	StaffID    int64
	Page       int
	Size       int
}

func (p ListOrdersParams) values() url.Values {
	q := url.Values{}
	if p.CustomerID > 0 {
		q.Set("customerId", strconv.FormatInt(p.CustomerID, 10))
	}
	if p.StaffID > 0 {
		q.Set("staffId", strconv.FormatInt(p.StaffID, 10))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	return q
}

// CreatePendingOrder opens a new pending order and returns the server's copy.
func (c *Client) CreatePendingOrder(ctx context.Context, req CreateOrderRequest) (*order.PendingOrder, error) {
	var o order.PendingOrder
	if _, err := c.do(ctx, http.MethodPost, "/pos/orders/pending", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListPendingOrders fetches a page of pending-order summaries.
func (c *Client) ListPendingOrders(ctx context.Context, params ListOrdersParams) ([]order.PendingOrder, *Pagination, error) {
	var list []order.PendingOrder
	page, err := c.do(ctx, http.MethodGet, "/pos/orders/pending", params.values(), nil, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, page, nil
}

// GetPendingOrder fetches the full detail of one pending order.
func (c *Client) GetPendingOrder(ctx context.Context, id int64) (*order.PendingOrder, error) {
	var o order.PendingOrder
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pos/orders/pending/%d", id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdatePendingOrder applies a partial update; the server recomputes totals
// and returns the updated order.
func (c *Client) UpdatePendingOrder(ctx context.Context, id int64, req UpdateOrderRequest) (*order.PendingOrder, error) {
	var o order.PendingOrder
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/pos/orders/pending/%d", id), nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CompleteOrder finalizes a pending order. The order is immutable afterwards.
func (c *Client) CompleteOrder(ctx context.Context, id int64, req CompleteOrderRequest) (*order.PendingOrder, error) {
	var o order.PendingOrder
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pos/orders/pending/%d/complete", id), nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder cancels a pending order with the staff's reason. The order is
// immutable afterwards.
func (c *Client) CancelOrder(ctx context.Context, id, staffID int64, reason string) (*order.PendingOrder, error) {
	q := url.Values{}
	q.Set("staffId", strconv.FormatInt(staffID, 10))
	q.Set("cancelReason", reason)

	var o order.PendingOrder
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/pos/orders/pending/%d", id), q, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateVnpayQR requests a VNPAY QR payment payload for the order. The
// returned string is either a data-URI image, an http(s) URL, or an opaque
// payload the terminal must QR-encode itself.
func (c *Client) CreateVnpayQR(ctx context.Context, id int64) (string, error) {
	var payload string
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pos/orders/pending/%d/vnpay-qr", id), nil, nil, &payload); err != nil {
		return "", err
	}
	return payload, nil
}
