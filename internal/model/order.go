package model

import "time"

// Order lifecycle states.  PENDING is the only initial state and the
// transition to SERVED is one-way; there is no cancellation path.
const (
	OrderStatusPending = "PENDING"
	OrderStatusServed  = "SERVED"
)

// Order mirrors the `orders` table.  An order exclusively owns its cart
// lines (deleted with the order via FK cascade).
//
// Fields:
//  OrderID            – primary key identifier.
//  StudentID          – student who placed the order.
//  Time               – placement timestamp.
//  Qty                – total units across all lines.
//  Amount             – total price across all lines.
//  PaymentMethod      – currently always WALLET.
//  TransactionID      – unique generated payment reference.
//  ItemsServed        – units handed out so far.
//  IsServed           – set together with status SERVED.
//  Status             – PENDING or SERVED.
//  DiscountPercentage – flat discount applied at placement (currently 0).
type Order struct {
	OrderID            uint64    // orders.order_id
	StudentID          uint64    // orders.student_id
	Time               time.Time // orders.time
	Qty                int       // orders.qty
	Amount             int64     // orders.amount
	PaymentMethod      string    // orders.payment_method
	TransactionID      string    // orders.transaction_id
	ItemsServed        int       // orders.items_served
	IsServed           bool      // orders.is_served
	Status             string    // orders.order_status
	DiscountPercentage int       // orders.discount_percentage
}

// CartLine mirrors the `carts` table: one ordered line of an order.
// NetPrice is a frozen snapshot of qty x unit price at order time, not
// a live join against item_master.
type CartLine struct {
	CartID     uint64 // carts.cart_id
	OrderID    uint64 // carts.order_id
	ItemID     uint64 // carts.item_id
	QtyOrdered int    // carts.qty_ordered
	NetPrice   int64  // carts.net_price
}
