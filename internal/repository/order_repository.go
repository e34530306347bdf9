package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"campus-canteen/internal/model"
)

// OrderRepo provides access to orders and their cart lines.  An order
// groups the lines bought in one placement; lines are stored in the
// carts table and deleted with their order.  All timestamps are UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new order within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or roll back the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders
		(student_id, time, qty, amount, payment_method, transaction_id, items_served, is_served, order_status, discount_percentage)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		o.StudentID, o.Time.UTC().Format("2006-01-02 15:04:05"), o.Qty, o.Amount,
		o.PaymentMethod, o.TransactionID, o.ItemsServed, o.IsServed, o.Status, o.DiscountPercentage)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.OrderID = uint64(id)
	return nil
}

// CreateCartLinesBulkTx inserts all cart lines of an order in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateCartLinesBulkTx(ctx context.Context, tx *sql.Tx, lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO carts (order_id, item_id, qty_ordered, net_price) VALUES `
	args := make([]interface{}, 0, len(lines)*4)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?)"
		args = append(args, l.OrderID, l.ItemID, l.QtyOrdered, l.NetPrice)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CartLineDetail is one ordered line joined with its catalog item for
// display.  Price is the current unit price; NetPrice stays the frozen
// amount paid at placement.
type CartLineDetail struct {
	CartID     uint64 `json:"cartId"`
	ItemID     uint64 `json:"itemId"`
	ItemName   string `json:"itemName"`
	Price      int64  `json:"price"`
	QtyOrdered int    `json:"qtyOrdered"`
	NetPrice   int64  `json:"netPrice"`
}

// OrderDetail is the order projection returned to clients, joining the
// owning student and the cart lines with their item names.
type OrderDetail struct {
	OrderID            uint64           `json:"orderId"`
	Time               string           `json:"time"`
	Qty                int              `json:"qty"`
	Amount             int64            `json:"amount"`
	PaymentMethod      string           `json:"paymentMethod"`
	TransactionID      string           `json:"transactionId"`
	ItemsServed        int              `json:"itemsServed"`
	IsServed           bool             `json:"isServed"`
	Status             string           `json:"orderStatus"`
	DiscountPercentage int              `json:"discountPercentage"`
	StudentID          uint64           `json:"studentId"`
	StudentName        string           `json:"studentName"`
	CartList           []CartLineDetail `json:"cartList"`
}

const orderDetailQuery = `SELECT o.order_id, o.time, o.qty, o.amount, o.payment_method, o.transaction_id,
	   o.items_served, o.is_served, o.order_status, o.discount_percentage,
	   s.student_id, s.name
  FROM orders o
  JOIN students s ON s.student_id = o.student_id`

func scanOrderDetail(row interface{ Scan(...interface{}) error }) (OrderDetail, error) {
	var d OrderDetail
	var t time.Time
	err := row.Scan(&d.OrderID, &t, &d.Qty, &d.Amount, &d.PaymentMethod, &d.TransactionID,
		&d.ItemsServed, &d.IsServed, &d.Status, &d.DiscountPercentage,
		&d.StudentID, &d.StudentName)
	if err != nil {
		return d, err
	}
	d.Time = t.UTC().Format(time.RFC3339)
	d.CartList = []CartLineDetail{}
	return d, nil
}

// attachCartLines loads the cart lines for all given orders in one
// query and appends them to the matching details.
func (r *OrderRepo) attachCartLines(ctx context.Context, details []OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(details))
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for i, d := range details {
		index[d.OrderID] = i
		ids = append(ids, d.OrderID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT c.order_id, c.cart_id, c.item_id, m.item_name, m.item_price, c.qty_ordered, c.net_price
				FROM carts c
				JOIN item_master m ON m.id = c.item_id
			   WHERE c.order_id IN (` + strings.Join(placeholders, ",") + `)
			   ORDER BY c.order_id, c.cart_id`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uint64
		var l CartLineDetail
		if err := rows.Scan(&orderID, &l.CartID, &l.ItemID, &l.ItemName, &l.Price, &l.QtyOrdered, &l.NetPrice); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			details[i].CartList = append(details[i].CartList, l)
		}
	}
	return rows.Err()
}

// ListByStatus returns all orders in the given lifecycle state, newest
// first, with student names and cart lines attached.
func (r *OrderRepo) ListByStatus(ctx context.Context, status string) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		orderDetailQuery+" WHERE o.order_status=? ORDER BY o.time DESC", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OrderDetail, 0)
	for rows.Next() {
		d, err := scanOrderDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCartLines(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByID returns one order with its lines.  sql.ErrNoRows when absent.
func (r *OrderRepo) GetByID(ctx context.Context, orderID uint64) (*OrderDetail, error) {
	row := r.db.QueryRowContext(ctx, orderDetailQuery+" WHERE o.order_id=?", orderID)
	d, err := scanOrderDetail(row)
	if err != nil {
		return nil, err
	}
	details := []OrderDetail{d}
	if err := r.attachCartLines(ctx, details); err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListByStudent returns all orders a student has placed, newest first.
func (r *OrderRepo) ListByStudent(ctx context.Context, studentID uint64) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		orderDetailQuery+" WHERE o.student_id=? ORDER BY o.time DESC", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]OrderDetail, 0)
	for rows.Next() {
		d, err := scanOrderDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCartLines(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// CountByStatus counts orders in the given lifecycle state.
func (r *OrderRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE order_status=?", status).Scan(&n)
	return n, err
}

// UpdateStatus sets an order's lifecycle state.  The SERVED transition
// is one-way: demoting a served order back to PENDING returns
// ErrConflict so order_status and is_served can never disagree.  Stock
// is untouched either way, it was committed when the order was placed,
// not when it is fulfilled.  sql.ErrNoRows when the order does not
// exist.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uint64, status string) error {
	var current string
	err := r.db.QueryRowContext(ctx,
		"SELECT order_status FROM orders WHERE order_id=? LIMIT 1", orderID).Scan(&current)
	if err != nil {
		return err
	}
	if current == model.OrderStatusServed && status != model.OrderStatusServed {
		return ErrConflict
	}
	served := status == model.OrderStatusServed
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET order_status=?, is_served=? WHERE order_id=?",
		status, served, orderID)
	if err != nil {
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	return nil
}
