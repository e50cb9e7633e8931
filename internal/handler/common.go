package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/customer-contacts-api/internal/query"
	qmodel "github.com/iliyamo/customer-contacts-api/internal/queue"
	queue_publisher "github.com/iliyamo/customer-contacts-api/internal/service"
)

// pagination is the metadata envelope returned by list endpoints.
type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func pageMeta(total int64, q *query.ListQuery) pagination {
	return pagination{
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: (total + int64(q.Limit) - 1) / int64(q.Limit),
	}
}

// getUserID extracts the authenticated user id stored by the JWT
// middleware. It returns 0 when the request is unauthenticated
// (public routes).
func getUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// pathID parses a numeric path parameter. Non-numeric values are a
// client error, reported by the caller as 400 "invalid id".
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil
}

// listFilter parses the list query parameters, writing the 400 response
// itself when a filter is invalid. The bool reports whether the caller
// should proceed.
func listFilter(c echo.Context, statuses []string) (*query.ListQuery, bool) {
	q, err := query.Parse(c.QueryParams(), statuses)
	if err != nil {
		var fe *query.FilterError
		if errors.As(err, &fe) {
			_ = c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Message, "field": fe.Field})
			return nil, false
		}
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
		return nil, false
	}
	return q, true
}

// publishEvent emits an entity-change event in the background. Delivery
// is best effort; a broker outage must never fail the request.
func publishEvent(actorID uint64, entity, action string, entityID, customerID uint64) {
	ev := qmodel.EntityEvent{
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		CustomerID: customerID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishEntityEvent(ctx, ev)
	}()
}
