package payment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
	"github.com/techzone/pos-terminal/internal/posapi"
	"github.com/techzone/pos-terminal/internal/session"
)

// fakeClient backs the session with an in-memory order store the tests can
// mutate to simulate server-side transitions.
type fakeClient struct {
	mu     sync.Mutex
	orders map[int64]order.PendingOrder
	lists  int

	qrPayload string
	qrErr     error
}

func newFakeClient(orders ...order.PendingOrder) *fakeClient {
	f := &fakeClient{orders: make(map[int64]order.PendingOrder)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeClient) setStatus(id int64, st order.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	o.Status = st
	f.orders[id] = o
}

func (f *fakeClient) CreatePendingOrder(_ context.Context, _ posapi.CreateOrderRequest) (*order.PendingOrder, error) {
	return nil, &posapi.Error{Kind: posapi.KindUnknown, Status: 500}
}

func (f *fakeClient) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeClient) ListPendingOrders(_ context.Context, _ posapi.ListOrdersParams) ([]order.PendingOrder, *posapi.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	list := make([]order.PendingOrder, 0, len(f.orders))
	for _, o := range f.orders {
		list = append(list, o)
	}
	return list, nil, nil
}

func (f *fakeClient) GetPendingOrder(_ context.Context, id int64) (*order.PendingOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &posapi.Error{Kind: posapi.KindNotFound, Status: 404}
	}
	return &o, nil
}

func (f *fakeClient) UpdatePendingOrder(_ context.Context, id int64, req posapi.UpdateOrderRequest) (*order.PendingOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	if req.SetLines {
		o.Lines = req.Lines
		o.Subtotal = order.Subtotal(req.Lines)
		o.Total = o.Subtotal
	}
	if req.SetCustomer {
		o.CustomerID = req.CustomerID
	}
	if req.SetVoucher {
		o.VoucherID = req.VoucherID
	}
	if req.SetNote {
		o.Note = req.Note
	}
	f.orders[id] = o
	return &o, nil
}

func (f *fakeClient) CompleteOrder(_ context.Context, id int64, _ posapi.CompleteOrderRequest) (*order.PendingOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	o.Status = order.StatusCompleted
	o.PaymentStatus = order.PaymentPaid
	f.orders[id] = o
	return &o, nil
}

func (f *fakeClient) CancelOrder(_ context.Context, id, _ int64, _ string) (*order.PendingOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[id]
	o.Status = order.StatusCancelled
	f.orders[id] = o
	return &o, nil
}

func (f *fakeClient) CreateVnpayQR(_ context.Context, _ int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.qrErr != nil {
		return "", f.qrErr
	}
	return f.qrPayload, nil
}

func (f *fakeClient) ListProducts(_ context.Context, _ posapi.ListParams) ([]product.Product, *posapi.Pagination, error) {
	return nil, nil, nil
}

func (f *fakeClient) ListCustomers(_ context.Context, _ posapi.ListParams) ([]customer.Customer, *posapi.Pagination, error) {
	return nil, nil, nil
}

func (f *fakeClient) ListVouchers(_ context.Context, _ posapi.ListParams) ([]voucher.Voucher, *posapi.Pagination, error) {
	return nil, nil, nil
}

// recordNotifier captures toasts for assertions.
type recordNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *recordNotifier) successCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes)
}

func (n *recordNotifier) lastFailure() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.failures) == 0 {
		return ""
	}
	return n.failures[len(n.failures)-1]
}

func vnd(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pendingOrder(id int64, lines ...order.Line) order.PendingOrder {
	o := order.PendingOrder{
		ID:     id,
		Code:   fmt.Sprintf("POS%06d", id),
		Status: order.StatusPending,
		Lines:  lines,
	}
	o.Subtotal = order.Subtotal(lines)
	o.Total = o.Subtotal
	return o
}

func line(detailID int64, qty int, unitPrice int64) order.Line {
	return order.Line{ProductDetailID: detailID, Quantity: qty, UnitPrice: vnd(unitPrice)}
}

// newTestRig wires a session and orchestrator over the fake. Zero timings
// default to an hour so nothing fires unless a test asks for it; watch tests
// pass a short debounce so polled refreshes actually land.
func newTestRig(t *testing.T, f *fakeClient, cfg Config, debounce time.Duration) (*session.Session, *Orchestrator, *recordNotifier) {
	t.Helper()
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Hour
	}
	if cfg.CallbackDelay == 0 {
		cfg.CallbackDelay = 5 * time.Millisecond
	}
	if debounce == 0 {
		debounce = time.Hour
	}
	notify := &recordNotifier{}
	sess := session.New(f, notify, zap.NewNop(), session.Config{StaffID: 7, Debounce: debounce})
	orch := NewOrchestrator(sess, notify, zap.NewNop(), cfg)
	t.Cleanup(func() {
		orch.Close()
		sess.Close()
	})
	return sess, orch, notify
}
