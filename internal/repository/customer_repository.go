package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/query"
)

const customerColumns = "id, name, email, status, created_at, updated_at"

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// List applies the structured filter and returns one page of customers
// with their owned contacts embedded, plus the total match count.
func (r *CustomerRepo) List(ctx context.Context, q *query.ListQuery) ([]*model.Customer, int64, error) {
	conds, args := filterClauses(q, "")
	cond := whereSQL(conds)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + customerColumns + " FROM customers WHERE " + cond + orderSQL(q, "") + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Customer, 0, q.Limit)
	for rows.Next() {
		c := new(model.Customer)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.Contacts = []model.ContactRef{}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachContacts(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// attachContacts loads the reduced contact projection for a page of
// customers in a single query and groups it by parent.
func (r *CustomerRepo) attachContacts(ctx context.Context, customers []*model.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Customer, len(customers))
	ph := make([]string, 0, len(customers))
	args := make([]any, 0, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
		ph = append(ph, "?")
		args = append(args, c.ID)
	}

	q := "SELECT id, customer_id, name, status FROM contacts WHERE customer_id IN (" +
		strings.Join(ph, ",") + ") ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ref model.ContactRef
		var customerID uint64
		if err := rows.Scan(&ref.ID, &customerID, &ref.Name, &ref.Status); err != nil {
			return err
		}
		if c, ok := byID[customerID]; ok {
			c.Contacts = append(c.Contacts, ref)
		}
	}
	return rows.Err()
}

// GetByID fetches one customer with its owned contacts embedded.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = "SELECT " + customerColumns + " FROM customers WHERE id = ?"
	c := new(model.Customer)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	c.Contacts = []model.ContactRef{}
	if err := r.attachContacts(ctx, []*model.Customer{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// Exists reports whether a customer row exists. Contact creation uses it
// to verify the parent before inserting.
func (r *CustomerRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// EmailTaken reports whether another customer already owns the email.
func (r *CustomerRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers WHERE email = ? AND id <> ?", email, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the customer and reads the row back so store-managed
// timestamps are populated.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const qInsert = "INSERT INTO customers (name, email, status) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Email, c.Status)
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
	c.ID = uint64(id)
	c.Contacts = []model.ContactRef{}

	const qSelect = "SELECT " + customerColumns + " FROM customers WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// CustomerPatch carries the fields of a partial update; nil means
// "leave unchanged".
type CustomerPatch struct {
	Name   *string
	Email  *string
	Status *string
}

// Update applies a partial update. A patch with no set fields is a no-op.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, p CustomerPatch) error {
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
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, "UPDATE customers SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil && isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// Delete hard-deletes a customer and its contacts inside a transaction
// so no orphaned contact rows survive.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var n int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers WHERE id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		err = ErrCustomerNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM contacts WHERE customer_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return err
	}
	return nil
}
