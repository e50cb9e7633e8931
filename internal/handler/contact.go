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

// ContactHandler bundles dependencies for the nested
// /customers/:customerId/contacts endpoints. Every operation is scoped
// to the parent customer taken from the path: a contact that exists
// under a different customer is reported as not found, never as
// forbidden, so contact ids leak nothing across customers.
type ContactHandler struct {
	Contacts  *repository.ContactRepo
	Customers *repository.CustomerRepo
}

func NewContactHandler(contacts *repository.ContactRepo, customers *repository.CustomerRepo) *ContactHandler {
	return &ContactHandler{Contacts: contacts, Customers: customers}
}

type contactReq struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

func (r contactReq) fields() validate.Fields {
	return validate.Fields{"name": r.Name, "email": r.Email, "status": r.Status}
}

// Index handles GET /customers/:customerId/contacts. The response is a
// bare array; only the top-level resources use the pagination envelope.
func (h *ContactHandler) Index(c echo.Context) error {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	q, ok := listFilter(c, model.ContactStatuses)
	if !ok {
		return nil
	}
	contacts, err := h.Contacts.ListByCustomer(c.Request().Context(), customerID, q)
	if err != nil {
		log.Printf("contacts: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, contacts)
}

// Show handles GET /customers/:customerId/contacts/:id.
func (h *ContactHandler) Show(c echo.Context) error {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ct, err := h.Contacts.GetByIDAndCustomer(c.Request().Context(), id, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found for this customer"})
		}
		log.Printf("contacts: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, ct)
}

// Create handles POST /customers/:customerId/contacts. The parent
// customer must exist; the contact email must be unique across all
// contacts, not just within this customer.
func (h *ContactHandler) Create(c echo.Context) error {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Apply(validate.ContactCreate, req.fields()); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	exists, err := h.Customers.Exists(ctx, customerID)
	if err != nil {
		log.Printf("contacts: customer lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	taken, err := h.Contacts.EmailTaken(ctx, *req.Email, 0)
	if err != nil {
		log.Printf("contacts: email lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if taken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
	}

	ct := &model.Contact{
		Name:       *req.Name,
		Email:      *req.Email,
		Status:     model.StatusActive,
		CustomerID: customerID,
	}
	if req.Status != nil {
		ct.Status = *req.Status
	}
	if err := h.Contacts.Create(ctx, ct); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("contacts: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "contact", "created", ct.ID, customerID)
	return c.JSON(http.StatusCreated, ct)
}

// Update handles PUT /customers/:customerId/contacts/:id. The scoped
// lookup runs first so a contact under another customer 404s before any
// write is attempted.
func (h *ContactHandler) Update(c echo.Context) error {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Apply(validate.ContactUpdate, req.fields()); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx := c.Request().Context()
	if _, err := h.Contacts.GetByIDAndCustomer(ctx, id, customerID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found for this customer"})
		}
		log.Printf("contacts: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if req.Email != nil {
		taken, err := h.Contacts.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			log.Printf("contacts: email lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
	}

	patch := repository.ContactPatch{Name: req.Name, Email: req.Email, Status: req.Status}
	if err := h.Contacts.Update(ctx, id, customerID, patch); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		log.Printf("contacts: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	ct, err := h.Contacts.GetByIDAndCustomer(ctx, id, customerID)
	if err != nil {
		log.Printf("contacts: reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "contact", "updated", id, customerID)
	return c.JSON(http.StatusOK, ct)
}

// Destroy handles DELETE /customers/:customerId/contacts/:id. The
// delete is keyed jointly on (id, customer_id) in a single statement.
func (h *ContactHandler) Destroy(c echo.Context) error {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Contacts.Delete(c.Request().Context(), id, customerID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "contact not found for this customer"})
		}
		log.Printf("contacts: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	publishEvent(getUserID(c), "contact", "deleted", id, customerID)
	return c.NoContent(http.StatusNoContent)
}
