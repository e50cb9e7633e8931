package repository

import (
	"strings"

	"github.com/iliyamo/customer-contacts-api/internal/query"
)

// filterClauses renders a ListQuery into WHERE conditions and their
// arguments. The users, customers and contacts tables share the
// name/email/status/created_at/updated_at columns, so one renderer
// serves all three. prefix qualifies columns when the query joins other
// tables (e.g. "c." for the contacts listing); callers prepend scope
// conditions such as customer_id before joining.
func filterClauses(q *query.ListQuery, prefix string) ([]string, []any) {
	var conds []string
	var args []any

	if q.Name != "" {
		conds = append(conds, "LOWER("+prefix+"name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Email != "" {
		conds = append(conds, "LOWER("+prefix+"email) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Email)+"%")
	}
	if len(q.Status) > 0 {
		ph := strings.Repeat("?,", len(q.Status))
		conds = append(conds, prefix+"status IN ("+ph[:len(ph)-1]+")")
		for _, s := range q.Status {
			args = append(args, s)
		}
	}
	if q.CreatedAfter != nil {
		conds = append(conds, prefix+"created_at >= ?")
		args = append(args, *q.CreatedAfter)
	}
	if q.CreatedBefore != nil {
		conds = append(conds, prefix+"created_at <= ?")
		args = append(args, *q.CreatedBefore)
	}
	if q.UpdatedAfter != nil {
		conds = append(conds, prefix+"updated_at >= ?")
		args = append(args, *q.UpdatedAfter)
	}
	if q.UpdatedBefore != nil {
		conds = append(conds, prefix+"updated_at <= ?")
		args = append(args, *q.UpdatedBefore)
	}
	return conds, args
}

// whereSQL joins conditions into a WHERE clause body, or "1=1" when empty
// so queries can always append `WHERE ` + whereSQL(...).
func whereSQL(conds []string) string {
	if len(conds) == 0 {
		return "1=1"
	}
	return strings.Join(conds, " AND ")
}

// orderSQL renders the sort keys in appearance order, or "" when the
// caller did not ask for ordering.
func orderSQL(q *query.ListQuery, prefix string) string {
	if len(q.Sort) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.Sort))
	for _, k := range q.Sort {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, prefix+k.Field+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
