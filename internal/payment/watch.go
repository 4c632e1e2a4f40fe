package payment

import (
	"sync"
	"time"

	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/session"
)

// Watcher detects the completion of an order paid through the external
// gateway. The current transport is polling: each tick schedules a debounced
// refresh and inspects the refreshed cache. The Subscribe shape keeps the
// orchestrator transport-agnostic so a push-fed implementation can replace
// polling without touching it.
type Watcher struct {
	sess     *session.Session
	interval time.Duration
}

// NewWatcher creates a Watcher polling at the given interval.
func NewWatcher(sess *session.Session, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Watcher{sess: sess, interval: interval}
}

// Subscribe watches the given order until it reaches a terminal status. A
// COMPLETED order invokes onComplete once with the final snapshot; a cancelled
// order just ends the subscription, so an abandoned QR payment does not leave
// the poll running. The returned stop function tears the subscription down
// early; it is idempotent and safe to call after the watch has ended.
func (w *Watcher) Subscribe(orderID int64, onComplete func(order.PendingOrder)) (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() { close(done) })
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.sess.ScheduleRefresh()
				o, ok := w.settled(orderID)
				if !ok {
					continue
				}
				stop()
				if o.Status == order.StatusCompleted {
					onComplete(o)
				}
				return
			}
		}
	}()

	return stop
}

// settled looks the order up in the refreshed cache and reports whether it has
// reached a terminal status, checking the selected snapshot first and the
// pending list second.
func (w *Watcher) settled(orderID int64) (order.PendingOrder, bool) {
	if sel := w.sess.Selected(); sel != nil && sel.ID == orderID && sel.Status.Terminal() {
		return *sel, true
	}
	for _, o := range w.sess.PendingOrders() {
		if o.ID == orderID && o.Status.Terminal() {
			return o, true
		}
	}
	return order.PendingOrder{}, false
}
