package session

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/techzone/pos-terminal/internal/posapi"
)

// Two refresh paths with distinct purposes. ScheduleRefresh coalesces rapid
// cart edits into one cheap refetch; RefreshAll is the broad resync after a
// terminal transition, where staleness across product stock, voucher
// quantities, and the customer list is unacceptable.

// ScheduleRefresh arms the debounced refresh: the pending-orders list and the
// active order are refetched once the configured quiet period passes without
// another call. Last call wins; superseded timers are cancelled. Failures are
// swallowed; the next natural trigger retries.
func (s *Session) ScheduleRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
	}
	s.refreshTimer = time.AfterFunc(s.cfg.Debounce, func() {
		// The timer outlives the caller; debounced refreshes run against the
		// background context, as the original fire-and-forget refetch did.
		s.refreshScoped(context.Background())
	})
}

// refreshScoped refetches the pending-orders list and, when an order is
// selected, that order. Errors are logged and dropped.
func (s *Session) refreshScoped(ctx context.Context) {
	list, _, err := s.client.ListPendingOrders(ctx, posapi.ListOrdersParams{Size: s.cfg.PageSize})
	if err != nil {
		s.lg.Debug("refresh pending orders", zap.Error(err))
	} else {
		s.mu.Lock()
		s.cache.pendingOrders = list
		s.mu.Unlock()
	}

	id := s.SelectedID()
	if id == 0 {
		return
	}
	o, err := s.client.GetPendingOrder(ctx, id)
	if err != nil {
		s.lg.Debug("refresh selected order", zap.Int64("order_id", id), zap.Error(err))
		return
	}
	s.storeSelected(o)
}

// RefreshOptions selects which resources a coordinated refresh touches.
type RefreshOptions struct {
	SkipPendingOrders bool
	SkipSelectedOrder bool
	SkipProducts      bool
	SkipCustomers     bool
	SkipVouchers      bool
	// ResetSelection clears the selected-order pointer as part of the same
	// logical operation, before any fetch runs.
	ResetSelection bool
}

// RefreshAll resyncs up to five independent resources concurrently. It is
// single-flight: a call arriving while another is in flight is dropped and
// returns false. Per-resource failures are collected and logged, never
// surfaced, since a refresh is not an operation the staff acted on.
func (s *Session) RefreshAll(ctx context.Context, opts RefreshOptions) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		return false
	}
	defer s.refreshing.Store(false)

	if opts.ResetSelection {
		s.mu.Lock()
		s.selectedID = 0
		s.cache.selected = nil
		s.mu.Unlock()
	}

	selectedID := s.SelectedID()
	page := posapi.ListParams{Size: s.cfg.PageSize}

	var g errgroup.Group

	if !opts.SkipPendingOrders {
		g.Go(func() error {
			list, _, err := s.client.ListPendingOrders(ctx, posapi.ListOrdersParams{Size: s.cfg.PageSize})
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.cache.pendingOrders = list
			s.mu.Unlock()
			return nil
		})
	}
	if !opts.SkipSelectedOrder && selectedID != 0 {
		g.Go(func() error {
			o, err := s.client.GetPendingOrder(ctx, selectedID)
			if err != nil {
				return err
			}
			s.storeSelected(o)
			return nil
		})
	}
	if !opts.SkipProducts {
		g.Go(func() error {
			list, _, err := s.client.ListProducts(ctx, page)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.cache.products = list
			s.mu.Unlock()
			return nil
		})
	}
	if !opts.SkipCustomers {
		g.Go(func() error {
			list, _, err := s.client.ListCustomers(ctx, page)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.cache.customers = list
			s.mu.Unlock()
			return nil
		})
	}
	if !opts.SkipVouchers {
		g.Go(func() error {
			list, _, err := s.client.ListVouchers(ctx, page)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.cache.vouchers = list
			s.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.lg.Warn("coordinated refresh incomplete", zap.Error(err))
	}
	return true
}
