package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/repository"
)

// StudentHandler serves the student profile CRUD and the balance
// endpoints.  Wallet credits go through the recharge flow; the balance
// PUT here is the administrative override.
type StudentHandler struct {
	Students *repository.StudentRepo
}

func NewStudentHandler(s *repository.StudentRepo) *StudentHandler {
	return &StudentHandler{Students: s}
}

type studentUpdateReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobileNo"`
	DOB      string `json:"dob"`
	Course   string `json:"courseName"`
}

// Get handles GET /student/:id.
func (h *StudentHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Students.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toStudentPart(s))
}

// Update handles PUT /student/:id.  Overwrites the mutable profile
// fields; blank fields in the body keep their current value.
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req studentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	s, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		s.Name = v
	}
	if v := normEmail(req.Email); v != "" {
		s.Email = v
	}
	if v := strings.TrimSpace(req.MobileNo); v != "" {
		s.MobileNo = v
	}
	if v := strings.TrimSpace(req.Course); v != "" {
		s.Course = v
	}
	if req.DOB != "" {
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dob, expected YYYY-MM-DD"})
		}
		s.DOB = dob
	}

	if err := h.Students.Update(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update student failed"})
		}
	}
	return c.JSON(http.StatusOK, toStudentPart(s))
}

// Delete handles DELETE /student/:id.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Students.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete student failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student deleted"})
}

// List handles GET /admin/students.
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.Students.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]studentPart, 0, len(students))
	for _, s := range students {
		out = append(out, toStudentPart(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Count handles GET /admin/totalstudents.
func (h *StudentHandler) Count(c echo.Context) error {
	n, err := h.Students.Count(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// GetBalance handles GET /student/:id/balance.
func (h *StudentHandler) GetBalance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s, err := h.Students.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"studentId": s.StudentID, "balance": s.Balance})
}

// SetBalance handles PUT /student/:id/balance.  Admin override that
// bypasses the recharge ledger.
func (h *StudentHandler) SetBalance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		Balance int64 `json:"balance"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Balance < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "balance must not be negative"})
	}
	if err := h.Students.SetBalance(c.Request().Context(), id, req.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update balance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"studentId": id, "balance": req.Balance})
}
