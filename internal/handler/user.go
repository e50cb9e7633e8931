package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/customer-contacts-api/internal/config"
	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/repository"
	"github.com/iliyamo/customer-contacts-api/internal/utils"
	"github.com/iliyamo/customer-contacts-api/internal/validate"
)

// UserHandler bundles dependencies for the /users endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type userCreateReq struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
	Status          *string `json:"status"`
	Role            *string `json:"role"`
}

type userUpdateReq struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	OldPassword     *string `json:"oldPassword"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
	Status          *string `json:"status"`
	Role            *string `json:"role"`
}

// Index handles GET /users: filtered, sorted, paginated listing. The
// password hash never appears in the projection.
func (h *UserHandler) Index(c echo.Context) error {
	q, ok := listFilter(c, model.UserStatuses)
	if !ok {
		return nil
	}
	users, total, err := h.Users.List(c.Request().Context(), q)
	if err != nil {
		log.Printf("users: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":       users,
		"pagination": pageMeta(total, q),
	})
}

// Show handles GET /users/:id.
func (h *UserHandler) Show(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("users: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /users. Public: this is the signup endpoint. The
// plaintext password exists only in the request; it is hashed here and
// only the hash is stored.
func (h *UserHandler) Create(c echo.Context) error {
	var req userCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fields := validate.Fields{
		"name":            req.Name,
		"email":           req.Email,
		"password":        req.Password,
		"passwordConfirm": req.PasswordConfirm,
		"status":          req.Status,
		"role":            req.Role,
	}
	if errs := validate.Apply(validate.UserCreate, fields); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	taken, err := h.Users.EmailTaken(ctx, *req.Email, 0)
	if err != nil {
		log.Printf("users: email lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
	}

	hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
	if err != nil {
		log.Printf("users: hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	u := &model.User{
		Name:         *req.Name,
		Email:        *req.Email,
		PasswordHash: hash,
		Status:       model.UserStatusActive,
		Role:         model.RoleUser,
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.Role != nil {
		u.Role = *req.Role
	}

	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("users: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(u.ID, "user", "created", u.ID, 0)
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users/:id. Changing email or password requires
// the current password; changing the name alone does not. This keeps a
// hijacked session from quietly taking over the account.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fields := validate.Fields{
		"name":            req.Name,
		"email":           req.Email,
		"oldPassword":     req.OldPassword,
		"password":        req.Password,
		"passwordConfirm": req.PasswordConfirm,
		"status":          req.Status,
		"role":            req.Role,
	}
	if errs := validate.Apply(validate.UserUpdate, fields); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("users: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	// Email and password changes must prove knowledge of the current
	// password; a name change alone is allowed on session auth.
	if (req.Email != nil || req.Password != nil) && req.OldPassword == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password is required to update email or password"})
	}
	if req.OldPassword != nil {
		hash, err := h.Users.GetHashByID(ctx, id)
		if err != nil {
			log.Printf("users: hash lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if !utils.VerifyPassword(hash, *req.OldPassword) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "old password is incorrect"})
		}
	}

	patch := repository.UserPatch{Name: req.Name, Status: req.Status, Role: req.Role}
	if req.Email != nil {
		taken, err := h.Users.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			log.Printf("users: email lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		patch.Email = req.Email
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			log.Printf("users: hash failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		patch.PasswordHash = &hash
	}

	if err := h.Users.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("users: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		log.Printf("users: reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "user", "updated", id, 0)
	return c.JSON(http.StatusOK, u)
}

// Destroy handles DELETE /users/:id.
func (h *UserHandler) Destroy(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("users: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "user", "deleted", id, 0)
	return c.NoContent(http.StatusNoContent)
}
