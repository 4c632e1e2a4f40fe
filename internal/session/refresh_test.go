package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func listCalls(f *fakeClient) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func TestScheduleRefresh_CoalescesBursts(t *testing.T) {
	f := newFakeClient(pendingOrder(1))
	sess := New(f, nil, zap.NewNop(), Config{Debounce: 40 * time.Millisecond})
	defer sess.Close()

	// A burst of cart edits keeps pushing the deadline out.
	for i := 0; i < 5; i++ {
		sess.ScheduleRefresh()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return listCalls(f) == 1 }, time.Second, 5*time.Millisecond)

	// Quiet period, no further refetches.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, listCalls(f))
}

func TestScheduleRefresh_IncludesSelectedOrder(t *testing.T) {
	f := newFakeClient(pendingOrder(1))
	sess := New(f, nil, zap.NewNop(), Config{Debounce: 10 * time.Millisecond})
	defer sess.Close()

	sess.SelectOrder(context.Background(), 1)
	sess.ScheduleRefresh()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		// One get from SelectOrder, one from the debounced refresh.
		return f.listCalls == 1 && f.getCalls == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshAll_SingleFlight(t *testing.T) {
	f := newFakeClient(pendingOrder(1))
	f.listStarted = make(chan struct{})
	f.listGate = make(chan struct{})
	sess, _ := newTestSession(t, f)

	first := make(chan bool, 1)
	go func() {
		first <- sess.RefreshAll(context.Background(), RefreshOptions{})
	}()

	// Wait until the first refresh is in flight, then try a second.
	<-f.listStarted
	assert.False(t, sess.RefreshAll(context.Background(), RefreshOptions{}))

	close(f.listGate)
	assert.True(t, <-first)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.listCalls)
	assert.Equal(t, 1, f.productCalls)
	assert.Equal(t, 1, f.customerCalls)
	assert.Equal(t, 1, f.voucherCalls)
}

func TestRefreshAll_SequentialCallsBothRun(t *testing.T) {
	f := newFakeClient(pendingOrder(1))
	sess, _ := newTestSession(t, f)

	assert.True(t, sess.RefreshAll(context.Background(), RefreshOptions{}))
	assert.True(t, sess.RefreshAll(context.Background(), RefreshOptions{}))
	assert.Equal(t, 2, listCalls(f))
}

func TestRefreshAll_ResetSelection(t *testing.T) {
	f := newFakeClient(pendingOrder(1))
	sess, _ := newTestSession(t, f)
	sess.SelectOrder(context.Background(), 1)
	require.Equal(t, int64(1), sess.SelectedID())

	sess.RefreshAll(context.Background(), RefreshOptions{SkipSelectedOrder: true, ResetSelection: true})

	assert.Zero(t, sess.SelectedID())
	assert.Nil(t, sess.Selected())
}

func TestRefreshAll_SkipsEverything(t *testing.T) {
	f := newFakeClient()
	sess, _ := newTestSession(t, f)

	ok := sess.RefreshAll(context.Background(), RefreshOptions{
		SkipPendingOrders: true,
		SkipSelectedOrder: true,
		SkipProducts:      true,
		SkipCustomers:     true,
		SkipVouchers:      true,
	})

	assert.True(t, ok)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Zero(t, f.listCalls)
	assert.Zero(t, f.productCalls)
	assert.Zero(t, f.customerCalls)
	assert.Zero(t, f.voucherCalls)
}

func TestRefreshAll_PopulatesCache(t *testing.T) {
	f := newFakeClient(pendingOrder(1), pendingOrder(2))
	sess, _ := newTestSession(t, f)

	require.True(t, sess.RefreshAll(context.Background(), RefreshOptions{}))

	assert.Len(t, sess.PendingOrders(), 2)
}
