package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/query"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// contactSelect joins the parent customer so responses can embed its
// reduced projection. Every query in this repository carries a
// customer_id condition: contacts are never visible outside the identity
// of their owning customer.
const contactSelect = `SELECT c.id, c.name, c.email, c.status, c.customer_id,
	c.created_at, c.updated_at, cu.id, cu.status, cu.email
	FROM contacts c
	JOIN customers cu ON cu.id = c.customer_id`

func scanContact(row interface{ Scan(...any) error }) (*model.Contact, error) {
	ct := new(model.Contact)
	ref := new(model.CustomerRef)
	err := row.Scan(&ct.ID, &ct.Name, &ct.Email, &ct.Status, &ct.CustomerID,
		&ct.CreatedAt, &ct.UpdatedAt, &ref.ID, &ref.Status, &ref.Email)
	if err != nil {
		return nil, err
	}
	ct.Customer = ref
	return ct, nil
}

// ListByCustomer applies the structured filter within the scope of one
// customer. There is no unscoped contact listing.
func (r *ContactRepo) ListByCustomer(ctx context.Context, customerID uint64, q *query.ListQuery) ([]*model.Contact, error) {
	conds, args := filterClauses(q, "c.")
	conds = append([]string{"c.customer_id = ?"}, conds...)
	args = append([]any{customerID}, args...)

	sqlStr := contactSelect + " WHERE " + strings.Join(conds, " AND ") +
		orderSQL(q, "c.") + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Contact, 0, q.Limit)
	for rows.Next() {
		ct, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndCustomer fetches a contact only when it belongs to the given
// customer. A contact that exists under another customer reports
// ErrContactNotFound, never a forbidden-style answer.
func (r *ContactRepo) GetByIDAndCustomer(ctx context.Context, id, customerID uint64) (*model.Contact, error) {
	ct, err := scanContact(r.db.QueryRowContext(ctx, contactSelect+" WHERE c.id = ? AND c.customer_id = ?", id, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return ct, nil
}

// EmailTaken reports whether another contact already owns the email.
// Contact emails are unique across all contacts, not per customer.
func (r *ContactRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE email = ? AND id <> ?", email, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a contact under its customer and reads the row back so
// store-managed timestamps and the parent projection are populated.
func (r *ContactRepo) Create(ctx context.Context, ct *model.Contact) error {
	const qInsert = "INSERT INTO contacts (name, email, status, customer_id) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, ct.Name, ct.Email, ct.Status, ct.CustomerID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	created, err := r.GetByIDAndCustomer(ctx, uint64(id), ct.CustomerID)
	if err != nil {
		return err
	}
	*ct = *created
	return nil
}

// ContactPatch carries the fields of a partial update; nil means
// "leave unchanged".
type ContactPatch struct {
	Name   *string
	Email  *string
	Status *string
}

// Update applies a partial update to a contact, keyed jointly on
// (id, customer_id).
func (r *ContactRepo) Update(ctx context.Context, id, customerID uint64, p ContactPatch) error {
	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, customerID)

	_, err := r.db.ExecContext(ctx,
		"UPDATE contacts SET "+strings.Join(sets, ", ")+" WHERE id = ? AND customer_id = ?", args...)
	if err != nil && isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// Delete hard-deletes a contact, keyed jointly on (id, customer_id).
func (r *ContactRepo) Delete(ctx context.Context, id, customerID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND customer_id = ?", id, customerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}
