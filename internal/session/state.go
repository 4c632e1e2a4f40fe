package session

import (
	"github.com/techzone/pos-terminal/internal/domain/customer"
	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/domain/product"
	"github.com/techzone/pos-terminal/internal/domain/voucher"
)

// state is the session's read-through cache of server data. Every entry is a
// snapshot written after a fetch; nothing mutates entries in place. Guarded
// by Session.mu.
type state struct {
	pendingOrders []order.PendingOrder
	selected      *order.PendingOrder
	products      []product.Product
	customers     []customer.Customer
	vouchers      []voucher.Voucher
}

// SelectedID returns the active order id, or zero when none is selected.
func (s *Session) SelectedID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Selected returns a copy of the active order's last-known snapshot, or nil.
func (s *Session) Selected() *order.PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.selected == nil {
		return nil
	}
	o := *s.cache.selected
	return &o
}

// PendingOrders returns the cached pending-orders list.
func (s *Session) PendingOrders() []order.PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order.PendingOrder(nil), s.cache.pendingOrders...)
}

// Products returns the cached product list.
func (s *Session) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.Product(nil), s.cache.products...)
}

// Customers returns the cached customer list.
func (s *Session) Customers() []customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]customer.Customer(nil), s.cache.customers...)
}

// Vouchers returns the cached voucher list.
func (s *Session) Vouchers() []voucher.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]voucher.Voucher(nil), s.cache.vouchers...)
}

// storeSelected writes a fresh snapshot of the active order, unless the
// selection moved on while the fetch was in flight. Later responses for the
// same order simply supersede earlier ones.
func (s *Session) storeSelected(o *order.PendingOrder) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == o.ID {
		s.cache.selected = o
	}
}
