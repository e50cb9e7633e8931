// Package query converts raw list query parameters into a structured,
// store-agnostic filter. Parsing is a pure function of the input values:
// no I/O happens here, which keeps the builder directly unit-testable.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when page/limit are absent or unparseable.
const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// FilterError reports a list query parameter that cannot be translated
// into a safe store predicate. Field names the offending query key so
// handlers can point at it in the 400 response.
type FilterError struct {
	Field   string
	Message string
}

func (e *FilterError) Error() string { return e.Message }

// SortKey is one ordering criterion. Keys apply in the order they appear
// in the sort parameter; the first key is the primary sort.
type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery is the parsed representation of list query parameters:
// substring predicates, a status membership set, inclusive date-range
// bounds per timestamp column, ordered sort keys and pagination.
type ListQuery struct {
	Name          string
	Email         string
	Status        []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
	Sort          []SortKey
	Page          int
	Limit         int
}

// Offset returns the row offset implied by Page and Limit.
func (q *ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

// sortable maps accepted sort field names to the column they order by.
// camelCase aliases are accepted alongside the column names themselves.
var sortable = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"status":     "status",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
}

// ISO-8601 layouts accepted by the date filters: full timestamps with or
// without offset, and bare calendar dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse builds a ListQuery from URL query values. statuses is the set of
// valid status tokens for the resource being listed; unknown tokens, bad
// dates and unknown sort fields all come back as *FilterError so the
// store never sees an unchecked predicate.
func Parse(values url.Values, statuses []string) (*ListQuery, error) {
	q := &ListQuery{
		Name:  strings.TrimSpace(values.Get("name")),
		Email: strings.TrimSpace(values.Get("email")),
		Page:  intOr(values.Get("page"), DefaultPage),
		Limit: intOr(values.Get("limit"), DefaultLimit),
	}

	if raw := values.Get("status"); raw != "" {
		allowed := make(map[string]bool, len(statuses))
		for _, s := range statuses {
			allowed[s] = true
		}
		for _, tok := range strings.Split(raw, ",") {
			tok = strings.ToUpper(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if !allowed[tok] {
				return nil, &FilterError{Field: "status", Message: fmt.Sprintf("unknown status %q", tok)}
			}
			q.Status = append(q.Status, tok)
		}
	}

	var err error
	if q.CreatedAfter, err = dateField(values, "createdAfter"); err != nil {
		return nil, err
	}
	if q.CreatedBefore, err = dateField(values, "createdBefore"); err != nil {
		return nil, err
	}
	if q.UpdatedAfter, err = dateField(values, "updatedAfter"); err != nil {
		return nil, err
	}
	if q.UpdatedBefore, err = dateField(values, "updatedBefore"); err != nil {
		return nil, err
	}

	if q.Sort, err = parseSort(values.Get("sort")); err != nil {
		return nil, err
	}
	return q, nil
}

// dateField parses one optional ISO-8601 date parameter. The returned
// error names the exact query field that failed.
func dateField(values url.Values, field string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &FilterError{Field: field, Message: "invalid date in " + field}
}

// parseSort splits a comma-separated list of "field" or "field:direction"
// pairs. Direction defaults to ascending and is case-insensitive.
func parseSort(raw string) ([]SortKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, hasDir := strings.Cut(part, ":")
		col, ok := sortable[strings.TrimSpace(field)]
		if !ok {
			return nil, &FilterError{Field: "sort", Message: fmt.Sprintf("unknown sort field %q", strings.TrimSpace(field))}
		}
		key := SortKey{Field: col}
		if hasDir {
			switch strings.ToUpper(strings.TrimSpace(dir)) {
			case "ASC", "":
			case "DESC":
				key.Desc = true
			default:
				return nil, &FilterError{Field: "sort", Message: fmt.Sprintf("invalid sort direction %q", strings.TrimSpace(dir))}
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// intOr parses a positive integer, falling back to def when the value is
// absent, non-numeric or not positive.
func intOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
