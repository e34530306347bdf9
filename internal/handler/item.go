package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/model"
	"campus-canteen/internal/repository"
)

// ItemHandler serves the catalog CRUD under /items (admin only).  The
// catalog holds master records; daily availability is a separate
// resource under /dailyitems.
type ItemHandler struct {
	Items *repository.ItemRepo
}

func NewItemHandler(i *repository.ItemRepo) *ItemHandler { return &ItemHandler{Items: i} }

type itemReq struct {
	Name     string `json:"itemName"`
	Price    int64  `json:"itemPrice"`
	Category string `json:"itemCategory"`
	Image    string `json:"itemImage"`
}

type itemResp struct {
	ID       uint64 `json:"id"`
	Name     string `json:"itemName"`
	Price    int64  `json:"itemPrice"`
	Category string `json:"itemCategory"`
	Image    string `json:"itemImage"`
}

func toItemResp(it model.ItemMaster) itemResp {
	return itemResp{ID: it.ID, Name: it.Name, Price: it.Price, Category: it.Category, Image: it.Image}
}

func (r itemReq) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("itemName required")
	}
	if r.Price <= 0 {
		return errors.New("itemPrice must be positive")
	}
	return nil
}

// List handles GET /items.
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.Items.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]itemResp, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResp(it))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /items/:id.
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	it, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid Item ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toItemResp(it))
}

// Create handles POST /items.
func (h *ItemHandler) Create(c echo.Context) error {
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	it := model.ItemMaster{
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Category: strings.TrimSpace(req.Category),
		Image:    strings.TrimSpace(req.Image),
	}
	if err := h.Items.Create(c.Request().Context(), &it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}
	return c.JSON(http.StatusCreated, toItemResp(it))
}

// Update handles PUT /items/:id.
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	it := model.ItemMaster{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Category: strings.TrimSpace(req.Category),
		Image:    strings.TrimSpace(req.Image),
	}
	if err := h.Items.Update(c.Request().Context(), it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid Item ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
	}
	return c.JSON(http.StatusOK, toItemResp(it))
}

// Delete handles DELETE /items/:id.  An item referenced by order
// history cannot be removed.
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Items.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid Item ID"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "item is referenced by existing orders"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}
