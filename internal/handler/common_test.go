package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/query"
)

func TestPageMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int64
	}{
		{"exact multiple", 50, 1, 25, 2},
		{"partial last page", 51, 3, 25, 3},
		{"empty result set", 0, 1, 25, 0},
		{"single row", 1, 1, 25, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &query.ListQuery{Page: tt.page, Limit: tt.limit}
			p := pageMeta(tt.total, q)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

func TestPaginationJSONKeys(t *testing.T) {
	b, err := json.Marshal(pagination{Total: 51, Page: 3, Limit: 25, TotalPages: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":51,"page":3,"limit":25,"totalPages":3}`, string(b))
}

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPathID(t *testing.T) {
	c, _ := newTestContext(t, "/users/17")
	c.SetParamNames("id")
	c.SetParamValues("17")

	id, ok := pathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(17), id)

	c.SetParamValues("abc")
	_, ok = pathID(c, "id")
	assert.False(t, ok)

	c.SetParamValues("-1")
	_, ok = pathID(c, "id")
	assert.False(t, ok)
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t, "/customers")
	assert.Zero(t, getUserID(c), "unauthenticated context")

	c.Set("user_id", uint64(5))
	assert.Equal(t, uint64(5), getUserID(c))
}

func TestListFilterWritesFieldError(t *testing.T) {
	c, rec := newTestContext(t, "/customers?createdAfter=not-a-date")

	q, ok := listFilter(c, model.CustomerStatuses)
	assert.False(t, ok)
	assert.Nil(t, q)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid date in createdAfter","field":"createdAfter"}`, rec.Body.String())
}

func TestListFilterValidQuery(t *testing.T) {
	c, rec := newTestContext(t, "/customers?status=active&page=2&limit=10&sort=name:desc")

	q, ok := listFilter(c, model.CustomerStatuses)
	require.True(t, ok)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, []string{"ACTIVE"}, q.Status)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
	require.Len(t, q.Sort, 1)
	assert.Equal(t, query.SortKey{Field: "name", Desc: true}, q.Sort[0])
}
