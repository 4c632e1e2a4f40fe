// Package session owns the terminal's order state: which pending order is
// active, every mutation against it, and the refresh coordination that keeps
// the local cache in sync with the server. The server is the single source of
// truth; the session never commits locally computed totals, it only recomputes
// line arrays from the last-known snapshot and sends them as full
// replacements.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
	"github.com/techzone/pos-terminal/internal/posapi"
)

// Client is the slice of the /pos API the session depends on.
type Client interface {
	CreatePendingOrder(ctx context.Context, req posapi.CreateOrderRequest) (*order.PendingOrder, error)
	ListPendingOrders(ctx context.Context, params posapi.ListOrdersParams) ([]order.PendingOrder, *posapi.Pagination, error)
	GetPendingOrder(ctx context.Context, id int64) (*order.PendingOrder, error)
	UpdatePendingOrder(ctx context.Context, id int64, req posapi.UpdateOrderRequest) (*order.PendingOrder, error)
	CompleteOrder(ctx context.Context, id int64, req posapi.CompleteOrderRequest) (*order.PendingOrder, error)
	CancelOrder(ctx context.Context, id, staffID int64, reason string) (*order.PendingOrder, error)
	CreateVnpayQR(ctx context.Context, id int64) (string, error)
	ListProducts(ctx context.Context, params posapi.ListParams) ([]product.Product, *posapi.Pagination, error)
	ListCustomers(ctx context.Context, params posapi.ListParams) ([]customer.Customer, *posapi.Pagination, error)
	ListVouchers(ctx context.Context, params posapi.ListParams) ([]voucher.Voucher, *posapi.Pagination, error)
}

// Config holds the session's tunables.
type Config struct {
	// StaffID tags created and cancelled orders with the operator.
	StaffID int64
	// Debounce is the quiet period of the debounced refresh. Zero uses 200ms.
	Debounce time.Duration
	// PageSize is the page window used by the coordinated refresh. Zero uses 10.
	PageSize int
}

const (
	defaultDebounce = 200 * time.Millisecond
	defaultPageSize = 10
)

// Session owns the selected-order pointer and mediates all reads and writes
// of pending-order state. Exactly one order is active per session at a time;
// the selection is local, never server state.
type Session struct {
	client Client
	notify Notifier
	lg     *zap.Logger
	cfg    Config

	mu           sync.Mutex
	selectedID   int64
	cache        state
	refreshTimer *time.Timer

	refreshing atomic.Bool
}

// New creates a Session.
func New(client Client, notify Notifier, lg *zap.Logger, cfg Config) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Session{client: client, notify: notify, lg: lg, cfg: cfg}
}

// Close releases the pending debounce timer, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
		s.refreshTimer = nil
	}
}

// SelectOrder makes the given order the active one and fetches its detail
// into the cache. A zero id is a no-op.
func (s *Session) SelectOrder(ctx context.Context, id int64) {
	if id == 0 {
		return
	}
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()

	o, err := s.client.GetPendingOrder(ctx, id)
	if err != nil {
		// Non-critical: the next refresh retries naturally.
		s.lg.Debug("fetch selected order", zap.Int64("order_id", id), zap.Error(err))
		return
	}
	s.storeSelected(o)
}

// CreateOrder opens a new empty cash-default order tagged to the operator,
// selects it, and schedules a scoped refresh. Returns the new order id, or
// zero with false after reporting the failure.
func (s *Session) CreateOrder(ctx context.Context) (int64, bool) {
	o, err := s.client.CreatePendingOrder(ctx, posapi.CreateOrderRequest{
		TotalAmount:   decimal.Zero,
		PaymentMethod: order.MethodCash,
		PaymentStatus: order.PaymentUnpaid,
		StaffID:       s.cfg.StaffID,
	})
	if err != nil {
		s.reportError(err, MsgCreateOrderFailed)
		return 0, false
	}

	s.mu.Lock()
	s.selectedID = o.ID
	s.cache.selected = o
	s.mu.Unlock()

	s.ScheduleRefresh()
	return o.ID, true
}

// ChangeCustomer assigns or clears the order's customer. A nil customer marks
// the order as a walk-in sale. No-op when no order is selected.
func (s *Session) ChangeCustomer(ctx context.Context, c *customer.Customer) bool {
	sel := s.mutableSelected()
	if sel == nil {
		return false
	}

	req := posapi.UpdateOrderRequest{SetCustomer: true, SetNote: true}
	if c != nil {
		req.CustomerID = &c.ID
		req.Note = c.Name
	} else {
		req.Note = GuestNote
	}

	updated, err := s.client.UpdatePendingOrder(ctx, sel.ID, req)
	if err != nil {
		s.notify.Error(MsgChangeCustomerFailed)
		return false
	}

	s.storeSelected(updated)
	s.ScheduleRefresh()
	return true
}

// ChangeVoucher assigns or clears the order's voucher. The server recomputes
// the discount; the client never persists its own figure.
func (s *Session) ChangeVoucher(ctx context.Context, v *voucher.Voucher) bool {
	sel := s.mutableSelected()
	if sel == nil {
		return false
	}

	req := posapi.UpdateOrderRequest{SetVoucher: true}
	if v != nil {
		req.VoucherID = &v.ID
	}

	updated, err := s.client.UpdatePendingOrder(ctx, sel.ID, req)
	if err != nil {
		s.notify.Error(MsgChangeVoucherFailed)
		return false
	}

	s.storeSelected(updated)
	s.ScheduleRefresh()
	return true
}

// AddProduct merges qty units of the variant into the active order's lines
// and sends the full replacement array.
func (s *Session) AddProduct(ctx context.Context, d product.Detail, qty int) bool {
	sel := s.mutableSelected()
	if sel == nil {
		s.notify.Error(MsgSelectOrderFirst)
		return false
	}
	if qty <= 0 {
		qty = 1
	}

	lines := order.MergeLine(sel.Lines, d.ID, qty, d.Price)
	updated, err := s.client.UpdatePendingOrder(ctx, sel.ID, posapi.UpdateOrderRequest{
		SetLines: true,
		Lines:    lines,
	})
	if err != nil {
		s.notify.Error(MsgAddProductFailed)
		return false
	}

	s.storeSelected(updated)
	s.ScheduleRefresh()
	return true
}

// UpdateLineQuantity rewrites one line's quantity, removing the line when qty
// drops to zero or below, and sends the full replacement array.
func (s *Session) UpdateLineQuantity(ctx context.Context, detailID int64, qty int) bool {
	sel := s.mutableSelected()
	if sel == nil {
		s.notify.Error(MsgSelectOrderFirst)
		return false
	}

	lines := order.SetLineQuantity(sel.Lines, detailID, qty)
	updated, err := s.client.UpdatePendingOrder(ctx, sel.ID, posapi.UpdateOrderRequest{
		SetLines: true,
		Lines:    lines,
	})
	if err != nil {
		s.notify.Error(MsgUpdateQuantityFailed)
		return false
	}

	s.storeSelected(updated)
	s.ScheduleRefresh()
	return true
}

// CompleteParams holds the payment input for finalizing an order.
type CompleteParams struct {
	Method      order.PaymentMethod
	Received    decimal.Decimal
	Voucher     *voucher.Voucher
	PaymentNote string
	OrderNote   string
}

// Complete finalizes the active order. Preconditions are checked locally
// before any network call: an order must be selected, it must have lines, and
// the received amount must cover the final amount computed from the last
// snapshot. On success the selection is reset and a broad refresh runs,
// skipping the now-terminal order.
func (s *Session) Complete(ctx context.Context, p CompleteParams) bool {
	sel := s.Selected()
	if sel == nil || sel.Status.Terminal() {
		s.notify.Error(MsgSelectOrderFirst)
		return false
	}
	if !sel.HasLines() {
		s.notify.Error(MsgEmptyCart)
		return false
	}

	final := voucher.FinalAmount(sel.Total, p.Voucher)
	if p.Received.LessThan(final) {
		s.notify.Error(MsgInsufficientCash)
		return false
	}

	req := posapi.CompleteOrderRequest{
		PaymentMethod: p.Method,
		AmountPaid:    p.Received,
		ChangeAmount:  p.Received.Sub(final),
		PaymentNote:   p.PaymentNote,
		OrderNote:     p.OrderNote,
	}
	if p.Voucher != nil {
		req.VoucherID = &p.Voucher.ID
	}

	if _, err := s.client.CompleteOrder(ctx, sel.ID, req); err != nil {
		s.reportError(err, MsgCompleteFailed)
		return false
	}

	s.notify.Success(MsgCompleteSuccess)
	s.RefreshAll(ctx, RefreshOptions{SkipSelectedOrder: true, ResetSelection: true})
	return true
}

// Cancel cancels the given order with a reason, substituting a default when
// staff give none. Cancelling the active order resets the selection.
func (s *Session) Cancel(ctx context.Context, orderID int64, reason string) bool {
	if reason == "" {
		reason = DefaultCancelReason
	}

	if _, err := s.client.CancelOrder(ctx, orderID, s.cfg.StaffID, reason); err != nil {
		s.reportError(err, MsgCancelFailed)
		return false
	}

	s.mu.Lock()
	wasSelected := s.selectedID == orderID
	if wasSelected {
		s.selectedID = 0
		s.cache.selected = nil
	}
	s.mu.Unlock()

	s.RefreshAll(ctx, RefreshOptions{SkipSelectedOrder: true})
	return true
}

// CreateVnpayQR requests a VNPAY QR payment payload for the order. Returns
// "" after reporting the failure.
func (s *Session) CreateVnpayQR(ctx context.Context, orderID int64) string {
	payload, err := s.client.CreateVnpayQR(ctx, orderID)
	if err != nil {
		s.notify.Error(MsgQRFailed)
		return ""
	}
	return payload
}

// mutableSelected returns the last-known snapshot of the active order when it
// can still be mutated, or nil. Terminal orders are treated as no selection:
// the pointer reset on complete/cancel normally prevents this, the check here
// closes the gap when a poll observes the transition first.
func (s *Session) mutableSelected() *order.PendingOrder {
	sel := s.Selected()
	if sel == nil || sel.Status.Terminal() {
		return nil
	}
	return sel
}

// reportError surfaces the server's message verbatim when the envelope carried
// one, otherwise the generic fallback for the operation. Transport failures
// never reach the operator as raw error text: their Message is Go error prose,
// not something the server said.
func (s *Session) reportError(err error, fallback string) {
	if msg := posapi.ValidationMessage(err); msg != "" {
		s.notify.Error(msg)
		return
	}
	if apiErr := posapi.AsError(err); apiErr != nil && apiErr.Status > 0 && apiErr.Message != "" {
		s.notify.Error(apiErr.Message)
		return
	}
	s.lg.Warn("operation failed", zap.Error(err))
	s.notify.Error(fallback)
}
