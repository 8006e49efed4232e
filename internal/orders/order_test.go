package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderInitialState(t *testing.T) {
	o := New(1, SideBuy, 12.3, 40, 0)
	assert.Equal(t, StatusOpen, o.Status)
	assert.Equal(t, 40.0, o.LeavesQty)
	assert.Equal(t, 0.0, o.CumNotional)
	assert.Equal(t, 0.0, o.AvgFillPrice)
	assert.False(t, o.IsFilled())
	assert.False(t, o.IsTerminal())
	assert.True(t, o.IsActive())
}

func TestFillPartial(t *testing.T) {
	o := New(1, SideSell, 12.3, 40, 0)
	o.Fill(20, 12.3)
	assert.Equal(t, StatusPartialFill, o.Status)
	assert.Equal(t, 20.0, o.LeavesQty)
	assert.Equal(t, 246.0, o.CumNotional)
	assert.Equal(t, 12.3, o.AvgFillPrice)
	assert.False(t, o.IsTerminal())
}

func TestFillToCompletionSnapsLeavesToZero(t *testing.T) {
	o := New(1, SideSell, 12.3, 40, 0)
	o.Fill(40, 12.3)
	require.True(t, o.IsFilled())
	assert.Equal(t, 0.0, o.LeavesQty)
	assert.True(t, o.IsTerminal())
}

func TestFillAveragePriceAcrossMultipleFills(t *testing.T) {
	// A 150-lot sell filled 100@12.0 then 50@10.0.
	o := New(1, SideSell, 10.0, 150, 0)
	o.Fill(100, 12.0)
	o.Fill(50, 10.0)
	require.True(t, o.IsFilled())
	assert.InDelta(t, 11.3333333, o.AvgFillPrice, 1e-6)
}

func TestFillPanicsOnOverfill(t *testing.T) {
	o := New(1, SideBuy, 12.3, 40, 0)
	assert.Panics(t, func() { o.Fill(41, 12.3) })
}

func TestFillPanicsOnTerminal(t *testing.T) {
	o := New(1, SideBuy, 12.3, 40, 0)
	o.Cancel()
	assert.Panics(t, func() { o.Fill(1, 12.3) })
}

func TestCancelZeroesLeaves(t *testing.T) {
	o := New(1, SideSell, 12.3, 40, 0)
	o.Cancel()
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, 0.0, o.LeavesQty)
	assert.True(t, o.IsTerminal())
}

func TestMarketableUsesSideSign(t *testing.T) {
	buyer := New(1, SideBuy, 12.3, 10, 0)
	assert.True(t, buyer.Marketable(12.3))  // at top of book
	assert.True(t, buyer.Marketable(12.2))  // better than top
	assert.False(t, buyer.Marketable(12.4)) // worse than limit

	seller := New(2, SideSell, 12.3, 10, 0)
	assert.True(t, seller.Marketable(12.3))
	assert.True(t, seller.Marketable(12.4))
	assert.False(t, seller.Marketable(12.2))
}

func TestOppositeSide(t *testing.T) {
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}
