package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/repository"
)

// MenuHandler serves the daily menu under /dailyitems.  Reads are open
// to students and admins; writes are admin only, enforced by the route
// policy rather than in here.
type MenuHandler struct {
	Daily *repository.DailyItemRepo
	Items *repository.ItemRepo
}

func NewMenuHandler(d *repository.DailyItemRepo, i *repository.ItemRepo) *MenuHandler {
	return &MenuHandler{Daily: d, Items: i}
}

// List handles GET /dailyitems.
func (h *MenuHandler) List(c echo.Context) error {
	entries, err := h.Daily.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, entries)
}

// Get handles GET /dailyitems/:id.
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	entry, err := h.Daily.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "daily item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, entry)
}

// Add handles POST /dailyitems/:id where :id is the catalog item.  Puts
// the item on today's menu with the given initial quantity; if it is
// already on today's menu its initial quantity is overwritten and the
// sold count kept.
func (h *MenuHandler) Add(c echo.Context) error {
	itemID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		InitialQty int `json:"initialQty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.InitialQty <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "initialQty must be positive"})
	}

	ctx := c.Request().Context()
	if _, err := h.Items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid Item ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	created, err := h.Daily.EnsureToday(ctx, itemID, req.InitialQty)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item already added to today's menu"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add daily item failed"})
	}

	entry, err := h.Daily.FindTodayByItem(ctx, itemID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, entry)
}

// Update handles PUT /dailyitems/:id.  Admin correction of quantities;
// omitted fields keep their current value.
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		InitialQty *int `json:"initialQty"`
		SoldQty    *int `json:"soldQty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.InitialQty == nil && req.SoldQty == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "initialQty or soldQty required"})
	}
	if req.InitialQty != nil && *req.InitialQty < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "initialQty must not be negative"})
	}
	if req.SoldQty != nil && *req.SoldQty < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "soldQty must not be negative"})
	}

	ctx := c.Request().Context()
	if err := h.Daily.Update(ctx, id, req.InitialQty, req.SoldQty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "daily item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update daily item failed"})
	}
	entry, err := h.Daily.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /dailyitems/:id.
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Daily.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "daily item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete daily item failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "daily item deleted"})
}

// DeleteAll handles DELETE /dailyitems/all, clearing the whole menu.
// Safe to repeat; an empty menu deletes zero rows.
func (h *MenuHandler) DeleteAll(c echo.Context) error {
	n, err := h.Daily.ResetAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset menu failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
