package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	got := Aggregate([]Line{
		{ItemID: 1, Qty: 2, UnitPrice: 50},
		{ItemID: 7, Qty: 1, UnitPrice: 120},
		{ItemID: 3, Qty: 3, UnitPrice: 15},
	})

	require.Len(t, got.Lines, 3)
	assert.Equal(t, int64(100), got.Lines[0].NetPrice)
	assert.Equal(t, int64(120), got.Lines[1].NetPrice)
	assert.Equal(t, int64(45), got.Lines[2].NetPrice)
	assert.Equal(t, 6, got.TotalQty)
	assert.Equal(t, int64(265), got.TotalAmount)
}

func TestAggregatePreservesLineOrder(t *testing.T) {
	got := Aggregate([]Line{
		{ItemID: 9, Qty: 1, UnitPrice: 10},
		{ItemID: 2, Qty: 1, UnitPrice: 10},
	})
	require.Len(t, got.Lines, 2)
	assert.Equal(t, uint64(9), got.Lines[0].ItemID)
	assert.Equal(t, uint64(2), got.Lines[1].ItemID)
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	assert.Empty(t, got.Lines)
	assert.Zero(t, got.TotalQty)
	assert.Zero(t, got.TotalAmount)
}
