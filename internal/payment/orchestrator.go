// Package payment drives the checkout side of the terminal: payment-method
// selection, cash handling, VNPAY QR generation, and completion detection for
// gateway-paid orders. It layers on the session, which owns the order state
// itself.
package payment

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
	"github.com/techzone/pos-terminal/internal/session"
)

// Gateway status messages shown to the operator.
const (
	msgGatewayFailed = "Thanh toán thất bại"
	msgGatewayError  = "Lỗi thanh toán"
)

// Config holds the orchestrator's timing tunables.
type Config struct {
	// PollInterval is the gateway-payment polling period. Zero uses 3s.
	PollInterval time.Duration
	// CallbackDelay is the pause before the post-redirect resync. Zero uses 1s.
	CallbackDelay time.Duration
}

// VnpayEligible reports whether the order qualifies for the VNPAY-QR payment
// option: it must exist server-side, carry at least one line, and have a
// positive total. The option is computed per order, not offered statically.
func VnpayEligible(o *order.PendingOrder) bool {
	return o != nil && o.ID != 0 && o.HasLines() && o.Total.IsPositive()
}

// Orchestrator owns the transient checkout state for the active order:
// selected payment method, customer, voucher, received amount, and the QR
// display state. All server effects go through the session.
type Orchestrator struct {
	sess    *session.Session
	watcher *Watcher
	notify  session.Notifier
	lg      *zap.Logger
	cfg     Config

	mu        sync.Mutex
	method    order.PaymentMethod
	customer  *customer.Customer
	voucher   *voucher.Voucher
	received  decimal.Decimal
	qrImage   string
	qrFailed  bool
	stopWatch func()
}

// NewOrchestrator creates an Orchestrator over the given session.
func NewOrchestrator(sess *session.Session, notify session.Notifier, lg *zap.Logger, cfg Config) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.CallbackDelay <= 0 {
		cfg.CallbackDelay = time.Second
	}
	if notify == nil {
		notify = session.NopNotifier{}
	}
	return &Orchestrator{
		sess:    sess,
		watcher: NewWatcher(sess, cfg.PollInterval),
		notify:  notify,
		lg:      lg,
		cfg:     cfg,
	}
}

// Close tears down any active payment watch.
func (p *Orchestrator) Close() {
	p.stopActiveWatch()
}

// stopActiveWatch ends the current completion subscription, if any.
func (p *Orchestrator) stopActiveWatch() {
	p.mu.Lock()
	stop := p.stopWatch
	p.stopWatch = nil
	p.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Method returns the current payment method, falling back to cash when the
// active order no longer qualifies for the selected gateway method. The
// fallback also ends any completion watch: its gating conditions are gone.
func (p *Orchestrator) Method() order.PaymentMethod {
	p.mu.Lock()
	degraded := p.method == order.MethodVnpayQR && !VnpayEligible(p.sess.Selected())
	if degraded {
		p.method = order.MethodCash
	}
	if p.method == "" {
		p.method = order.MethodCash
	}
	m := p.method
	p.mu.Unlock()
	if degraded {
		p.stopActiveWatch()
	}
	return m
}

// AvailableMethods lists the methods selectable for the active order. Cash is
// always offered; VNPAY-QR only while the order qualifies.
func (p *Orchestrator) AvailableMethods() []order.PaymentMethod {
	methods := []order.PaymentMethod{order.MethodCash}
	if VnpayEligible(p.sess.Selected()) {
		methods = append(methods, order.MethodVnpayQR)
	}
	return methods
}

// SetMethod switches the payment method. Selecting VNPAY-QR on an ineligible
// order is refused and the method stays as it was. Switching away from
// VNPAY-QR ends any completion watch started for it.
func (p *Orchestrator) SetMethod(m order.PaymentMethod) bool {
	if m == order.MethodVnpayQR && !VnpayEligible(p.sess.Selected()) {
		return false
	}
	p.mu.Lock()
	p.method = m
	p.mu.Unlock()
	if m != order.MethodVnpayQR {
		p.stopActiveWatch()
	}
	return true
}

// SetCustomer assigns or clears the order's customer through the session.
func (p *Orchestrator) SetCustomer(ctx context.Context, c *customer.Customer) bool {
	if !p.sess.ChangeCustomer(ctx, c) {
		return false
	}
	p.mu.Lock()
	p.customer = c
	p.mu.Unlock()
	return true
}

// SetVoucher assigns or clears the order's voucher through the session.
func (p *Orchestrator) SetVoucher(ctx context.Context, v *voucher.Voucher) bool {
	if !p.sess.ChangeVoucher(ctx, v) {
		return false
	}
	p.mu.Lock()
	p.voucher = v
	p.mu.Unlock()
	return true
}

// Voucher returns the locally selected voucher, or nil.
func (p *Orchestrator) Voucher() *voucher.Voucher {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voucher
}

// SetReceived records the cash amount handed over by the customer.
func (p *Orchestrator) SetReceived(amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = amount
}

// FinalAmount returns the amount due for the active order after the selected
// voucher, computed from the last snapshot for optimistic display.
func (p *Orchestrator) FinalAmount() decimal.Decimal {
	sel := p.sess.Selected()
	if sel == nil {
		return decimal.Zero
	}
	p.mu.Lock()
	v := p.voucher
	p.mu.Unlock()
	return voucher.FinalAmount(sel.Total, v)
}

// Change returns received minus the final amount. It may be negative; the
// display styles a shortfall distinctly rather than hiding it.
func (p *Orchestrator) Change() decimal.Decimal {
	p.mu.Lock()
	received := p.received
	p.mu.Unlock()
	return received.Sub(p.FinalAmount())
}

// CanComplete reports whether the completion action should be enabled: the
// order has lines and the received amount covers the final amount.
func (p *Orchestrator) CanComplete() bool {
	sel := p.sess.Selected()
	if !sel.HasLines() {
		return false
	}
	p.mu.Lock()
	received := p.received
	p.mu.Unlock()
	return !received.LessThan(p.FinalAmount())
}

// CompleteCash finalizes the active order as a cash sale and resets the
// checkout state on success.
func (p *Orchestrator) CompleteCash(ctx context.Context) bool {
	p.mu.Lock()
	received := p.received
	v := p.voucher
	p.mu.Unlock()

	ok := p.sess.Complete(ctx, session.CompleteParams{
		Method:   order.MethodCash,
		Received: received,
		Voucher:  v,
	})
	if ok {
		p.resetLocal()
	}
	return ok
}

// GenerateQR requests a VNPAY payment payload for the active order, renders
// it into a displayable image, and starts the completion watch. A failure
// flips the retryable QR error state instead of raising a transient toast;
// call GenerateQR again to retry.
func (p *Orchestrator) GenerateQR(ctx context.Context) bool {
	sel := p.sess.Selected()
	if !VnpayEligible(sel) || p.Method() != order.MethodVnpayQR {
		return false
	}

	payload := p.sess.CreateVnpayQR(ctx, sel.ID)
	if payload == "" {
		p.setQRError()
		return false
	}

	img, err := QRImage(payload)
	if err != nil {
		p.lg.Warn("render qr image", zap.Error(err))
		p.setQRError()
		return false
	}

	p.mu.Lock()
	p.qrImage = img
	p.qrFailed = false
	p.mu.Unlock()

	// Generating the QR moves the order into PENDING_PAYMENT server-side.
	p.sess.ScheduleRefresh()
	p.startWatch(sel.ID)
	return true
}

// QRState returns the current QR image data URI and whether the last
// generation failed and is awaiting a retry.
func (p *Orchestrator) QRState() (image string, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.qrImage, p.qrFailed
}

func (p *Orchestrator) setQRError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.qrImage = ""
	p.qrFailed = true
}

// startWatch subscribes to the order's completion, replacing any previous
// subscription. On completion: broad resync without dropping the selection
// immediately, success notice, and checkout state reset.
func (p *Orchestrator) startWatch(orderID int64) {
	stop := p.watcher.Subscribe(orderID, func(o order.PendingOrder) {
		p.sess.RefreshAll(context.Background(), session.RefreshOptions{})
		p.notify.Success(session.MsgCompleteSuccess)
		p.resetLocal()
	})

	p.mu.Lock()
	prev := p.stopWatch
	p.stopWatch = stop
	p.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// resetLocal clears the transient checkout state after a finished payment.
func (p *Orchestrator) resetLocal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.method = order.MethodCash
	p.customer = nil
	p.voucher = nil
	p.received = decimal.Zero
	p.qrImage = ""
	p.qrFailed = false
}
