package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPlacedTicket(t *testing.T) {
	got := formatPlacedTicket(OrderPlacedEvent{
		OrderID:       12,
		StudentID:     3,
		StudentName:   "Asha",
		TransactionID: "TXN-WALLET-abc",
		Qty:           3,
		Amount:        145,
		PlacedAt:      "2026-08-28T09:30:00Z",
		Lines: []OrderLine{
			{ItemID: 1, ItemName: "Masala Dosa", Qty: 2, NetPrice: 120},
			{ItemID: 4, ItemName: "Tea", Qty: 1, NetPrice: 25},
		},
	})
	assert.Equal(t,
		"[2026-08-28T09:30:00Z] Order placed | order_id=12 | student=\"Asha\" | txn=TXN-WALLET-abc | total=145 | items=[2x Masala Dosa, 1x Tea]\n",
		got)
}

func TestFormatServedTicket(t *testing.T) {
	got := formatServedTicket(OrderServedEvent{
		OrderID:   12,
		StudentID: 3,
		ServedAt:  "2026-08-28T10:00:00Z",
	})
	assert.Equal(t, "[2026-08-28T10:00:00Z] Order served | order_id=12 | student_id=3\n", got)
}

func TestHandlePlacedRejectsGarbage(t *testing.T) {
	assert.Error(t, handlePlaced([]byte("{not json")))
	assert.Error(t, handleServed([]byte("{not json")))
}
