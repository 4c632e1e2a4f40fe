package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestMergeLine_AppendsNewLine(t *testing.T) {
	lines := MergeLine(nil, 101, 2, price(50_000))

	require.Len(t, lines, 1)
	assert.Equal(t, int64(101), lines[0].ProductDetailID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, price(50_000).Equal(lines[0].UnitPrice))
}

func TestMergeLine_MergesExistingLine(t *testing.T) {
	base := []Line{
		{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)},
		{ProductDetailID: 102, Quantity: 1, UnitPrice: price(30_000)},
	}

	lines := MergeLine(base, 101, 3, price(50_000))

	require.Len(t, lines, 2)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)

	// Adding the same variant twice never yields two lines for it.
	lines = MergeLine(lines, 101, 1, price(50_000))
	require.Len(t, lines, 2)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestMergeLine_DoesNotMutateInput(t *testing.T) {
	base := []Line{{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)}}

	_ = MergeLine(base, 101, 3, price(50_000))

	assert.Equal(t, 2, base[0].Quantity)
}

func TestSetLineQuantity_Rewrites(t *testing.T) {
	base := []Line{
		{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)},
		{ProductDetailID: 102, Quantity: 1, UnitPrice: price(30_000)},
	}

	lines := SetLineQuantity(base, 102, 4)

	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[1].Quantity)
	assert.Equal(t, 1, base[1].Quantity)
}

func TestSetLineQuantity_RemovesAtZero(t *testing.T) {
	base := []Line{
		{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)},
		{ProductDetailID: 102, Quantity: 1, UnitPrice: price(30_000)},
	}

	for _, qty := range []int{0, -1} {
		lines := SetLineQuantity(base, 101, qty)
		require.Len(t, lines, 1)
		assert.Equal(t, int64(102), lines[0].ProductDetailID)
	}
}

func TestSetLineQuantity_UnknownIDIsNoop(t *testing.T) {
	base := []Line{{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)}}

	lines := SetLineQuantity(base, 999, 5)

	assert.Equal(t, base, lines)
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{ProductDetailID: 101, Quantity: 2, UnitPrice: price(50_000)},
		{ProductDetailID: 102, Quantity: 3, UnitPrice: price(30_000)},
	}

	assert.True(t, price(190_000).Equal(Subtotal(lines)))
	assert.True(t, decimal.Zero.Equal(Subtotal(nil)))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPendingPayment.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestHasLines(t *testing.T) {
	var o *PendingOrder
	assert.False(t, o.HasLines())
	assert.False(t, (&PendingOrder{}).HasLines())
	assert.True(t, (&PendingOrder{Lines: []Line{{ProductDetailID: 1, Quantity: 1}}}).HasLines())
}
