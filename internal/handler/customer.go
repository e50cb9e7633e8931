package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/repository"
	"github.com/iliyamo/customer-contacts-api/internal/validate"
)

// CustomerHandler bundles dependencies for the /customers endpoints.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(r *repository.CustomerRepo) *CustomerHandler {
	return &CustomerHandler{Customers: r}
}

type customerReq struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

func (r customerReq) fields() validate.Fields {
	return validate.Fields{"name": r.Name, "email": r.Email, "status": r.Status}
}

// Index handles GET /customers: filtered, sorted, paginated listing with
// each customer's contacts embedded.
func (h *CustomerHandler) Index(c echo.Context) error {
	q, ok := listFilter(c, model.CustomerStatuses)
	if !ok {
		return nil
	}
	customers, total, err := h.Customers.List(c.Request().Context(), q)
	if err != nil {
		log.Printf("customers: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":       customers,
		"pagination": pageMeta(total, q),
	})
}

// Show handles GET /customers/:id, returning the customer with its
// owned contacts.
func (h *CustomerHandler) Show(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Printf("customers: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Apply(validate.CustomerCreate, req.fields()); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	taken, err := h.Customers.EmailTaken(ctx, *req.Email, 0)
	if err != nil {
		log.Printf("customers: email lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
	}

	cust := &model.Customer{
		Name:   *req.Name,
		Email:  *req.Email,
		Status: model.StatusActive,
	}
	if req.Status != nil {
		cust.Status = *req.Status
	}
	if err := h.Customers.Create(ctx, cust); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("customers: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "customer", "created", cust.ID, 0)
	return c.JSON(http.StatusCreated, cust)
}

// Update handles PUT /customers/:id: partial update, only supplied
// fields change.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Apply(validate.CustomerUpdate, req.fields()); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	if _, err := h.Customers.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Printf("customers: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if req.Email != nil {
		taken, err := h.Customers.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			log.Printf("customers: email lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
	}

	patch := repository.CustomerPatch{Name: req.Name, Email: req.Email, Status: req.Status}
	if err := h.Customers.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("customers: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		log.Printf("customers: reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "customer", "updated", id, 0)
	return c.JSON(http.StatusOK, cust)
}

// Destroy handles DELETE /customers/:id. Owned contacts are removed in
// the same transaction.
func (h *CustomerHandler) Destroy(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Printf("customers: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "customer", "deleted", id, 0)
	return c.NoContent(http.StatusNoContent)
}
