package stubserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
)

// ErrNotFound is returned for lookups of unknown entities.
var ErrNotFound = errors.New("not found")

// ValidationError carries the operator-facing message for a rejected request,
// surfaced to clients as a 422 body.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Store is the in-memory order/catalog state behind the stub API. It mirrors
// the real backend's observable behaviour: totals are recomputed server-side
// on every mutation, stock and voucher quantities are decremented on
// completion, and terminal orders reject further mutation.
type Store struct {
	now func() time.Time

	mu        sync.Mutex
	orderSeq  int64
	orders    map[int64]*order.PendingOrder
	products  []product.Product
	details   map[int64]*product.Detail
	customers []customer.Customer
	vouchers  map[int64]*voucher.Voucher
}

// NewStore creates an empty Store using the given clock.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:      now,
		orders:   make(map[int64]*order.PendingOrder),
		details:  make(map[int64]*product.Detail),
		vouchers: make(map[int64]*voucher.Voucher),
	}
}

// AddProduct registers a catalog product with its variants.
func (s *Store) AddProduct(p product.Product, details ...product.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	for i := range details {
		d := details[i]
		s.details[d.ID] = &d
	}
}

// AddCustomer registers a customer.
func (s *Store) AddCustomer(c customer.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
}

// AddVoucher registers a voucher.
func (s *Store) AddVoucher(v voucher.Voucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vouchers[v.ID] = &v
}

// CreateOrder opens a new pending order for the staff member.
func (s *Store) CreateOrder(staffID int64, method order.PaymentMethod, note string) *order.PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderSeq++
	now := s.now()
	if method == "" {
		method = order.MethodCash
	}
	o := &order.PendingOrder{
		ID:            s.orderSeq,
		Code:          fmt.Sprintf("POS%06d", s.orderSeq),
		Status:        order.StatusPending,
		Lines:         []order.Line{},
		Subtotal:      decimal.Zero,
		Discount:      decimal.Zero,
		Total:         decimal.Zero,
		PaymentMethod: method,
		PaymentStatus: order.PaymentUnpaid,
		Note:          note,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.orders[o.ID] = o
	return snapshot(o)
}

// GetOrder returns a snapshot of the order.
func (s *Store) GetOrder(id int64) (*order.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	return snapshot(o), nil
}

// ListOrders returns all orders, newest first.
func (s *Store) ListOrders() []order.PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.PendingOrder, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *snapshot(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// OrderUpdate is the partial-update input for a pending order. Each Set flag
// marks a field as present in the request body.
type OrderUpdate struct {
	SetCustomer   bool
	CustomerID    *int64
	SetVoucher    bool
	VoucherID     *int64
	SetNote       bool
	Note          string
	SetLines      bool
	Lines         []order.Line
	PaymentMethod order.PaymentMethod
	PaymentStatus order.PaymentStatus
}

// UpdateOrder applies a partial update and recomputes totals.
func (s *Store) UpdateOrder(id int64, upd OrderUpdate) (*order.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if o.Status.Terminal() {
		return nil, validationf("Đơn hàng đã kết thúc, không thể thay đổi")
	}

	if upd.SetCustomer {
		o.CustomerID = upd.CustomerID
	}
	if upd.SetVoucher {
		if upd.VoucherID != nil {
			if _, ok := s.vouchers[*upd.VoucherID]; !ok {
				return nil, validationf("Phiếu giảm giá không tồn tại")
			}
		}
		o.VoucherID = upd.VoucherID
	}
	if upd.SetNote {
		o.Note = upd.Note
	}
	if upd.SetLines {
		if err := s.checkLines(upd.Lines); err != nil {
			return nil, err
		}
		o.Lines = upd.Lines
	}
	if upd.PaymentMethod != "" {
		o.PaymentMethod = upd.PaymentMethod
	}
	if upd.PaymentStatus != "" {
		o.PaymentStatus = upd.PaymentStatus
	}

	s.recompute(o)
	o.UpdatedAt = s.now()
	return snapshot(o), nil
}

// CompleteOrder finalizes the order: payment is recorded, stock and voucher
// quantity are decremented, and the order becomes immutable.
func (s *Store) CompleteOrder(id int64, method order.PaymentMethod, amountPaid decimal.Decimal, voucherID *int64) (*order.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if o.Status.Terminal() {
		return nil, validationf("Đơn hàng đã kết thúc, không thể thay đổi")
	}
	if len(o.Lines) == 0 {
		return nil, validationf("Đơn hàng chưa có sản phẩm")
	}

	if voucherID != nil {
		o.VoucherID = voucherID
	}
	s.recompute(o)

	if amountPaid.LessThan(o.Total) {
		return nil, validationf("Số tiền thanh toán không đủ")
	}

	for _, l := range o.Lines {
		if d, ok := s.details[l.ProductDetailID]; ok {
			d.AvailableStock -= l.Quantity
		}
	}
	if o.VoucherID != nil {
		if v, ok := s.vouchers[*o.VoucherID]; ok && v.Quantity > 0 {
			v.Quantity--
		}
	}

	if method != "" {
		o.PaymentMethod = method
	}
	o.Status = order.StatusCompleted
	o.PaymentStatus = order.PaymentPaid
	o.UpdatedAt = s.now()
	return snapshot(o), nil
}

// CancelOrder cancels the order with the staff's reason.
func (s *Store) CancelOrder(id int64, reason string) (*order.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if o.Status.Terminal() {
		return nil, validationf("Đơn hàng đã kết thúc, không thể hủy")
	}
	if reason == "" {
		return nil, validationf("Cần lý do hủy đơn hàng")
	}

	o.Status = order.StatusCancelled
	o.Note = strings.TrimSpace(o.Note + " | Hủy: " + reason)
	o.UpdatedAt = s.now()
	return snapshot(o), nil
}

// GenerateQR produces an opaque VNPAY payment payload for the order and moves
// it into PENDING_PAYMENT.
func (s *Store) GenerateQR(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if o.Status.Terminal() {
		return "", validationf("Đơn hàng đã kết thúc, không thể thanh toán")
	}
	if len(o.Lines) == 0 || !o.Total.IsPositive() {
		return "", validationf("Đơn hàng chưa đủ điều kiện thanh toán QR")
	}

	o.PaymentMethod = order.MethodVnpayQR
	o.Status = order.StatusPendingPayment
	o.UpdatedAt = s.now()
	return fmt.Sprintf("vnpay://pay?order=%s&amount=%s", o.Code, o.Total.String()), nil
}

// SettlePayment simulates the gateway confirming payment for an order in
// PENDING_PAYMENT, flipping it to COMPLETED.
func (s *Store) SettlePayment(id int64) (*order.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if o.Status != order.StatusPendingPayment {
		return nil, validationf("Đơn hàng không ở trạng thái chờ thanh toán")
	}

	for _, l := range o.Lines {
		if d, ok := s.details[l.ProductDetailID]; ok {
			d.AvailableStock -= l.Quantity
		}
	}
	if o.VoucherID != nil {
		if v, ok := s.vouchers[*o.VoucherID]; ok && v.Quantity > 0 {
			v.Quantity--
		}
	}

	o.Status = order.StatusCompleted
	o.PaymentStatus = order.PaymentPaid
	o.UpdatedAt = s.now()
	return snapshot(o), nil
}

// Products returns the catalog.
func (s *Store) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product(nil), s.products...)
}

// ProductDetails returns the variants of one product.
func (s *Store) ProductDetails(productID int64) []product.Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]product.Detail, 0)
	for _, d := range s.details {
		if d.ProductID == productID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Customers returns all customers.
func (s *Store) Customers() []customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]customer.Customer(nil), s.customers...)
}

// Vouchers returns all vouchers.
func (s *Store) Vouchers() []voucher.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]voucher.Voucher, 0, len(s.vouchers))
	for _, v := range s.vouchers {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Detail returns one variant by id.
func (s *Store) Detail(id int64) (*product.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.details[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "product detail %d", id)
	}
	cp := *d
	return &cp, nil
}

// checkLines validates quantities and stock. Caller holds the lock.
func (s *Store) checkLines(lines []order.Line) error {
	for _, l := range lines {
		if l.Quantity <= 0 {
			return validationf("Số lượng sản phẩm không hợp lệ")
		}
		d, ok := s.details[l.ProductDetailID]
		if !ok {
			return validationf("Sản phẩm không tồn tại")
		}
		if l.Quantity > d.AvailableStock {
			return validationf("Sản phẩm %s không đủ hàng", d.Name)
		}
	}
	return nil
}

// recompute derives subtotal, discount, and total from the lines and the
// assigned voucher. Caller holds the lock.
func (s *Store) recompute(o *order.PendingOrder) {
	o.Subtotal = order.Subtotal(o.Lines)

	var v *voucher.Voucher
	if o.VoucherID != nil {
		if stored, ok := s.vouchers[*o.VoucherID]; ok && stored.UsableAt(s.now(), o.Subtotal) {
			v = stored
		}
	}
	o.Discount = v.DiscountFor(o.Subtotal)
	o.Total = voucher.FinalAmount(o.Subtotal, v)
}

// snapshot deep-copies an order so callers never share the stored slice.
func snapshot(o *order.PendingOrder) *order.PendingOrder {
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	return &cp
}
