package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"campus-canteen/internal/cart"
	"campus-canteen/internal/model"
	"campus-canteen/internal/queue"
	"campus-canteen/internal/repository"
	queue_publisher "campus-canteen/internal/service"
)

// OrderHandler owns the order placement transaction and the order query
// endpoints.  Placement is the one multi-table write in the system:
// every stock reservation and the order row itself commit together or
// not at all.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Daily    *repository.DailyItemRepo
	Items    *repository.ItemRepo
	Students *repository.StudentRepo
}

func NewOrderHandler(o *repository.OrderRepo, d *repository.DailyItemRepo, i *repository.ItemRepo, s *repository.StudentRepo) *OrderHandler {
	if o == nil || d == nil || i == nil || s == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Daily: d, Items: i, Students: s}
}

type orderLineReq struct {
	ItemID     uint64 `json:"itemId"`
	QtyOrdered int    `json:"qtyOrdered"`
	ItemPrice  int64  `json:"itemPrice"` // informational; the catalog price is authoritative
}

type placeOrderReq struct {
	Items []orderLineReq `json:"items"`
}

// newTransactionRef builds the order's unique payment reference.
func newTransactionRef(paymentMethod string) string {
	return "TXN-" + paymentMethod + "-" + uuid.NewString()
}

// Place handles POST /orders/:id/orders where :id is the student.
// Within a single transaction it resolves the student, then per line
// the catalog item and today's menu entry, reserves stock and persists
// the order with its cart lines.  Any failed line rolls back every
// reservation made before it.
func (h *OrderHandler) Place(c echo.Context) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	for _, l := range req.Items {
		if l.ItemID == 0 || l.QtyOrdered <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each line needs itemId and a positive qtyOrdered"})
		}
	}

	ctx := c.Request().Context()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	student, err := h.Students.GetByIDTx(ctx, tx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	lines := make([]cart.Line, 0, len(req.Items))
	names := make(map[uint64]string, len(req.Items))
	for _, l := range req.Items {
		item, err := h.Items.GetByIDTx(ctx, tx, l.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid Item ID"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		daily, err := h.Daily.FindTodayByItemTx(ctx, tx, l.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusConflict, echo.Map{
					"error": fmt.Sprintf("item not available in today's menu: %s", item.Name),
				})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if _, err := h.Daily.ReserveTx(ctx, tx, daily.DailyID, l.QtyOrdered); err != nil {
			var stockErr *repository.InsufficientStockError
			if errors.As(err, &stockErr) {
				stockErr.ItemName = item.Name
				return c.JSON(http.StatusConflict, echo.Map{"error": stockErr.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reserve stock failed"})
		}
		names[item.ID] = item.Name
		lines = append(lines, cart.Line{ItemID: item.ID, Qty: l.QtyOrdered, UnitPrice: item.Price})
	}

	totals := cart.Aggregate(lines)
	order := model.Order{
		StudentID:     student.StudentID,
		Time:          time.Now().UTC(),
		Qty:           totals.TotalQty,
		Amount:        totals.TotalAmount,
		PaymentMethod: "WALLET",
		TransactionID: newTransactionRef("WALLET"),
		Status:        model.OrderStatusPending,
	}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}
	cartLines := make([]model.CartLine, 0, len(totals.Lines))
	for _, pl := range totals.Lines {
		cartLines = append(cartLines, model.CartLine{
			OrderID:    order.OrderID,
			ItemID:     pl.ItemID,
			QtyOrdered: pl.Qty,
			NetPrice:   pl.NetPrice,
		})
	}
	if err := h.Orders.CreateCartLinesBulkTx(ctx, tx, cartLines); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create cart lines failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	event := queue.OrderPlacedEvent{
		OrderID:       order.OrderID,
		StudentID:     student.StudentID,
		StudentName:   student.Name,
		TransactionID: order.TransactionID,
		Qty:           order.Qty,
		Amount:        order.Amount,
		PlacedAt:      order.Time.Format(time.RFC3339),
	}
	for _, pl := range totals.Lines {
		event.Lines = append(event.Lines, queue.OrderLine{
			ItemID:   pl.ItemID,
			ItemName: names[pl.ItemID],
			Qty:      pl.Qty,
			NetPrice: pl.NetPrice,
		})
	}
	go func() { _ = queue_publisher.PublishOrderPlaced(context.Background(), event) }()

	detail, err := h.Orders.GetByID(ctx, order.OrderID)
	if err != nil {
		// Committed but unreadable; return the essentials.
		return c.JSON(http.StatusCreated, echo.Map{
			"orderId":       order.OrderID,
			"transactionId": order.TransactionID,
			"amount":        order.Amount,
			"qty":           order.Qty,
			"orderStatus":   order.Status,
		})
	}
	return c.JSON(http.StatusCreated, detail)
}

// UpdateStatus handles PUT /orders/:id/status?status=SERVED|PENDING.
// Moving to SERVED also raises is_served and is one-way; a served order
// cannot go back to PENDING.  The daily ledger is untouched because
// stock was committed at placement.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != model.OrderStatusPending && status != model.OrderStatusServed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING or SERVED"})
	}

	ctx := c.Request().Context()
	if err := h.Orders.UpdateStatus(ctx, orderID, status); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order already served"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update order status failed"})
		}
	}

	detail, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if status == model.OrderStatusServed {
		event := queue.OrderServedEvent{
			OrderID:   detail.OrderID,
			StudentID: detail.StudentID,
			ServedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = queue_publisher.PublishOrderServed(context.Background(), event) }()
	}
	return c.JSON(http.StatusOK, detail)
}

// ListPending handles GET /orders/pending.
func (h *OrderHandler) ListPending(c echo.Context) error {
	return h.listByStatus(c, model.OrderStatusPending)
}

// ListServed handles GET /orders/served and its /orders/completed alias.
func (h *OrderHandler) ListServed(c echo.Context) error {
	return h.listByStatus(c, model.OrderStatusServed)
}

func (h *OrderHandler) listByStatus(c echo.Context, status string) error {
	orders, err := h.Orders.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	detail, err := h.Orders.GetByID(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListByStudent handles GET /orders/students/:id.
func (h *OrderHandler) ListByStudent(c echo.Context) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	orders, err := h.Orders.ListByStudent(c.Request().Context(), studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, orders)
}

// CountPending handles GET /orders/pending/count.
func (h *OrderHandler) CountPending(c echo.Context) error {
	return h.countByStatus(c, model.OrderStatusPending)
}

// CountServed handles GET /orders/served/count.
func (h *OrderHandler) CountServed(c echo.Context) error {
	return h.countByStatus(c, model.OrderStatusServed)
}

func (h *OrderHandler) countByStatus(c echo.Context, status string) error {
	n, err := h.Orders.CountByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}
