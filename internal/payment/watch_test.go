package payment

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/techzone/pos-terminal/internal/domain/order"
	"github.com/techzone/pos-terminal/internal/session"
)

func TestWatcher_DetectsCompletion(t *testing.T) {
	o := pendingOrder(1, line(101, 2, 50_000))
	o.Status = order.StatusPendingPayment
	f := newFakeClient(o)

	sess := session.New(f, nil, zap.NewNop(), session.Config{Debounce: 5 * time.Millisecond})
	defer sess.Close()

	w := NewWatcher(sess, 10*time.Millisecond)

	var fires atomic.Int32
	got := make(chan order.PendingOrder, 1)
	stop := w.Subscribe(1, func(o order.PendingOrder) {
		fires.Add(1)
		got <- o
	})
	defer stop()

	// Let a few polls observe the unpaid order first.
	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, fires.Load())

	f.setStatus(1, order.StatusCompleted)

	select {
	case completed := <-got:
		assert.Equal(t, int64(1), completed.ID)
		assert.Equal(t, order.StatusCompleted, completed.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("completion never observed")
	}

	// The subscription tore itself down; no repeat fire.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestWatcher_StopsWhenOrderCancelled(t *testing.T) {
	o := pendingOrder(1, line(101, 2, 50_000))
	o.Status = order.StatusPendingPayment
	f := newFakeClient(o)

	sess := session.New(f, nil, zap.NewNop(), session.Config{Debounce: 5 * time.Millisecond})
	defer sess.Close()

	w := NewWatcher(sess, 10*time.Millisecond)

	var fires atomic.Int32
	stop := w.Subscribe(1, func(order.PendingOrder) { fires.Add(1) })
	defer stop()

	f.setStatus(1, order.StatusCancelled)

	// The next poll observes the cancellation; refresh traffic dies off and
	// the callback never fires.
	require.Eventually(t, func() bool {
		before := f.listCount()
		time.Sleep(30 * time.Millisecond)
		return f.listCount() == before
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, fires.Load())
}

func TestWatcher_StopBeforeCompletion(t *testing.T) {
	o := pendingOrder(1, line(101, 2, 50_000))
	o.Status = order.StatusPendingPayment
	f := newFakeClient(o)

	sess := session.New(f, nil, zap.NewNop(), session.Config{Debounce: 5 * time.Millisecond})
	defer sess.Close()

	w := NewWatcher(sess, 10*time.Millisecond)

	var fires atomic.Int32
	stop := w.Subscribe(1, func(order.PendingOrder) { fires.Add(1) })

	stop()
	stop() // idempotent

	f.setStatus(1, order.StatusCompleted)
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fires.Load())
}

func TestWatcher_ChecksSelectedSnapshotFirst(t *testing.T) {
	o := pendingOrder(1, line(101, 2, 50_000))
	o.Status = order.StatusCompleted
	f := newFakeClient(o)

	sess := session.New(f, nil, zap.NewNop(), session.Config{Debounce: 5 * time.Millisecond})
	defer sess.Close()

	// Selecting fetches the already-completed snapshot into the cache; the
	// first tick should find it without waiting for a list refresh.
	sess.SelectOrder(context.Background(), 1)

	w := NewWatcher(sess, 10*time.Millisecond)
	got := make(chan order.PendingOrder, 1)
	stop := w.Subscribe(1, func(o order.PendingOrder) { got <- o })
	defer stop()

	select {
	case completed := <-got:
		require.Equal(t, order.StatusCompleted, completed.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("completion never observed")
	}
}
