package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerStatuses = []string{"ACTIVE", "ARCHIVED"}

func TestParseDefaults(t *testing.T) {
	q, err := Parse(url.Values{}, customerStatuses)
	require.NoError(t, err)

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset())
	assert.Empty(t, q.Name)
	assert.Empty(t, q.Email)
	assert.Nil(t, q.Status)
	assert.Nil(t, q.Sort)
	assert.Nil(t, q.CreatedAfter)
	assert.Nil(t, q.CreatedBefore)
	assert.Nil(t, q.UpdatedAfter)
	assert.Nil(t, q.UpdatedBefore)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		limit      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"explicit values", "3", "10", 3, 10, 20},
		{"zero falls back", "0", "0", DefaultPage, DefaultLimit, 0},
		{"negative falls back", "-5", "-1", DefaultPage, DefaultLimit, 0},
		{"garbage falls back", "abc", "xyz", DefaultPage, DefaultLimit, 0},
		{"page only", "2", "", 2, DefaultLimit, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			if tt.page != "" {
				v.Set("page", tt.page)
			}
			if tt.limit != "" {
				v.Set("limit", tt.limit)
			}
			q, err := Parse(v, customerStatuses)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("single token upper-cased", func(t *testing.T) {
		v := url.Values{"status": {"active"}}
		q, err := Parse(v, customerStatuses)
		require.NoError(t, err)
		assert.Equal(t, []string{"ACTIVE"}, q.Status)
	})

	t.Run("comma list with spaces", func(t *testing.T) {
		v := url.Values{"status": {" active , archived "}}
		q, err := Parse(v, customerStatuses)
		require.NoError(t, err)
		assert.Equal(t, []string{"ACTIVE", "ARCHIVED"}, q.Status)
	})

	t.Run("empty tokens skipped", func(t *testing.T) {
		v := url.Values{"status": {"active,,"}}
		q, err := Parse(v, customerStatuses)
		require.NoError(t, err)
		assert.Equal(t, []string{"ACTIVE"}, q.Status)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		v := url.Values{"status": {"active,BOGUS"}}
		_, err := Parse(v, customerStatuses)
		require.Error(t, err)
		var fe *FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "status", fe.Field)
	})
}

func TestParseDates(t *testing.T) {
	t.Run("accepted layouts", func(t *testing.T) {
		tests := []struct {
			raw  string
			want time.Time
		}{
			{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{"2024-03-01T10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
			{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		}
		for _, tt := range tests {
			v := url.Values{"createdAfter": {tt.raw}}
			q, err := Parse(v, customerStatuses)
			require.NoError(t, err, tt.raw)
			require.NotNil(t, q.CreatedAfter)
			assert.True(t, tt.want.Equal(*q.CreatedAfter), tt.raw)
		}
	})

	t.Run("error names the field", func(t *testing.T) {
		for _, field := range []string{"createdAfter", "createdBefore", "updatedAfter", "updatedBefore"} {
			v := url.Values{field: {"not-a-date"}}
			_, err := Parse(v, customerStatuses)
			require.Error(t, err, field)
			var fe *FilterError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, field, fe.Field)
			assert.Contains(t, fe.Message, field)
		}
	})

	t.Run("all four bounds together", func(t *testing.T) {
		v := url.Values{
			"createdAfter":  {"2024-01-01"},
			"createdBefore": {"2024-12-31"},
			"updatedAfter":  {"2024-06-01"},
			"updatedBefore": {"2024-06-30"},
		}
		q, err := Parse(v, customerStatuses)
		require.NoError(t, err)
		require.NotNil(t, q.CreatedAfter)
		require.NotNil(t, q.CreatedBefore)
		require.NotNil(t, q.UpdatedAfter)
		require.NotNil(t, q.UpdatedBefore)
	})
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []SortKey
		wantErr string
	}{
		{"single ascending by default", "name", []SortKey{{Field: "name"}}, ""},
		{"explicit directions", "name:desc,email:asc", []SortKey{{Field: "name", Desc: true}, {Field: "email"}}, ""},
		{"direction case-insensitive", "id:DESC", []SortKey{{Field: "id", Desc: true}}, ""},
		{"camelCase alias maps to column", "createdAt:desc", []SortKey{{Field: "created_at", Desc: true}}, ""},
		{"snake_case accepted too", "updated_at", []SortKey{{Field: "updated_at"}}, ""},
		{"empty parts skipped", "name,,email", []SortKey{{Field: "name"}, {Field: "email"}}, ""},
		{"unknown field rejected", "password", nil, "sort"},
		{"invalid direction rejected", "name:sideways", nil, "sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{"sort": {tt.raw}}
			q, err := Parse(v, customerStatuses)
			if tt.wantErr != "" {
				require.Error(t, err)
				var fe *FilterError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantErr, fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestParseNameEmailTrimmed(t *testing.T) {
	v := url.Values{"name": {"  Acme  "}, "email": {" ops@acme.io "}}
	q, err := Parse(v, customerStatuses)
	require.NoError(t, err)
	assert.Equal(t, "Acme", q.Name)
	assert.Equal(t, "ops@acme.io", q.Email)
}
