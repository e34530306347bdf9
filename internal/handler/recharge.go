package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/model"
	"campus-canteen/internal/repository"
)

// RechargeHandler serves the wallet recharge flow and its history CRUD.
// The credit and its history row are one transaction: a balance that
// moved always has a matching ledger entry.
type RechargeHandler struct {
	Recharges *repository.RechargeRepo
	Students  *repository.StudentRepo
}

func NewRechargeHandler(r *repository.RechargeRepo, s *repository.StudentRepo) *RechargeHandler {
	return &RechargeHandler{Recharges: r, Students: s}
}

type rechargeReq struct {
	StudentID   uint64 `json:"studentId"`
	AmountAdded int64  `json:"amountAdded"`
	PaymentID   string `json:"paymentId"`
}

type rechargePart struct {
	TransactionID uint64 `json:"transactionId"`
	StudentID     uint64 `json:"studentId"`
	AmountAdded   int64  `json:"amountAdded"`
	PaymentID     string `json:"paymentId"`
	Timestamp     string `json:"timestamp"`
}

func toRechargePart(h model.RechargeHistory) rechargePart {
	return rechargePart{
		TransactionID: h.TransactionID,
		StudentID:     h.StudentID,
		AmountAdded:   h.AmountAdded,
		PaymentID:     h.PaymentID,
		Timestamp:     h.Timestamp.Format(time.RFC3339),
	}
}

// Add handles POST /recharge.
func (h *RechargeHandler) Add(c echo.Context) error {
	var req rechargeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.AmountAdded <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amountAdded must be positive"})
	}
	if req.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paymentId is required"})
	}
	if req.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "studentId is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Recharges.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Students.AddBalanceTx(ctx, tx, req.StudentID, req.AmountAdded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update balance failed"})
	}
	rec := model.RechargeHistory{
		StudentID:   req.StudentID,
		AmountAdded: req.AmountAdded,
		PaymentID:   req.PaymentID,
		Timestamp:   time.Now().UTC(),
	}
	if err := h.Recharges.InsertTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record recharge failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, toRechargePart(rec))
}

// ListByStudent handles GET /recharge/students/:id.
func (h *RechargeHandler) ListByStudent(c echo.Context) error {
	studentID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	history, err := h.Recharges.ListByStudent(c.Request().Context(), studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]rechargePart, 0, len(history))
	for _, rec := range history {
		out = append(out, toRechargePart(rec))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /recharge/:tranId.
func (h *RechargeHandler) Get(c echo.Context) error {
	tranID, err := parseID(c, "tranId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rec, err := h.Recharges.GetByID(c.Request().Context(), tranID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recharge not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRechargePart(rec))
}

// Update handles PUT /recharge/:tranId.  Admin correction of the
// external payment reference only.
func (h *RechargeHandler) Update(c echo.Context) error {
	tranID, err := parseID(c, "tranId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		PaymentID string `json:"paymentId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paymentId is required"})
	}
	ctx := c.Request().Context()
	if err := h.Recharges.Update(ctx, tranID, req.PaymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recharge not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update recharge failed"})
	}
	rec, err := h.Recharges.GetByID(ctx, tranID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toRechargePart(rec))
}

// Delete handles DELETE /recharge/:tranId.  Removes the ledger row
// without reversing the credit.
func (h *RechargeHandler) Delete(c echo.Context) error {
	tranID, err := parseID(c, "tranId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Recharges.Delete(c.Request().Context(), tranID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recharge not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete recharge failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "recharge deleted"})
}
