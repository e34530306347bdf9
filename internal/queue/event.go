// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderLine is one (item, quantity) pair of a placed order as carried
// in events.
type OrderLine struct {
	ItemID   uint64 `json:"item_id"`
	ItemName string `json:"item_name"`
	Qty      int    `json:"qty"`
	NetPrice int64  `json:"net_price"`
}

// OrderPlacedEvent is published after an order commits.  It carries
// enough for the kitchen ticket log and downstream analytics without
// querying the primary database.
type OrderPlacedEvent struct {
	OrderID       uint64      `json:"order_id"`
	StudentID     uint64      `json:"student_id"`
	StudentName   string      `json:"student_name"`
	TransactionID string      `json:"transaction_id"`
	Qty           int         `json:"qty"`
	Amount        int64       `json:"amount"`
	Lines         []OrderLine `json:"lines"`
	PlacedAt      string      `json:"placed_at"`
}

// OrderServedEvent is published when an order is marked served.
type OrderServedEvent struct {
	OrderID   uint64 `json:"order_id"`
	StudentID uint64 `json:"student_id"`
	ServedAt  string `json:"served_at"`
}
