package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"campus-canteen/internal/config"
	"campus-canteen/internal/model"
	"campus-canteen/internal/repository"
	"campus-canteen/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and password
// change.  Registration writes users and students in one transaction so
// an auth row never exists without its profile or vice versa.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Students *repository.StudentRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.StudentRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Students: s}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	MobileNo string `json:"mobileNo"`
	DOB      string `json:"dob"` // YYYY-MM-DD
	Course   string `json:"courseName"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type passwordChangeReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

type studentPart struct {
	StudentID uint64 `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	Balance   int64  `json:"balance"`
	DOB       string `json:"dob"`
	Course    string `json:"courseName"`
}

func toStudentPart(s model.Student) studentPart {
	dob := ""
	if !s.DOB.IsZero() {
		dob = s.DOB.Format("2006-01-02")
	}
	return studentPart{
		StudentID: s.StudentID,
		Name:      s.Name,
		Email:     s.Email,
		MobileNo:  s.MobileNo,
		Balance:   s.Balance,
		DOB:       dob,
		Course:    s.Course,
	}
}

// StudentRegister creates the users and students rows together and
// returns the new profile with a fresh token.
func (h *AuthHandler) StudentRegister(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = normEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	var dob time.Time
	if req.DOB != "" {
		var err error
		if dob, err = time.Parse("2006-01-02", req.DOB); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dob, expected YYYY-MM-DD"})
		}
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Users.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	uid, err := h.Users.CreateTx(ctx, tx, req.Email, hash, model.RoleStudent)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	student := model.Student{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		MobileNo:     strings.TrimSpace(req.MobileNo),
		DOB:          dob,
		Course:       strings.TrimSpace(req.Course),
		UserID:       uid,
	}
	if err := h.Students.CreateTx(ctx, tx, &student); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create student failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, model.RoleStudent, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"student": toStudentPart(student),
		"access":  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// StudentLogin verifies credentials and issues a bearer token.
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	return h.login(c, model.RoleStudent)
}

// AdminLogin is StudentLogin restricted to the ADMIN role.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, model.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, wantRole string) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = normEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if wantRole == model.RoleAdmin && u.Role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:   userPart{Email: u.Email, Role: u.Role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// ChangePassword verifies the old password and rewrites the stored hash
// on both the students and users rows in one transaction.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req passwordChangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "oldPassword/newPassword required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(s.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password does not match"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	tx, err := h.Students.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Students.UpdatePasswordTx(ctx, tx, id, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	if err := h.Users.UpdatePasswordTx(ctx, tx, s.Email, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
