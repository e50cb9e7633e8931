package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/customer-contacts-api/internal/model"
	"github.com/iliyamo/customer-contacts-api/internal/query"
)

// userColumns is every projection the repository hands out. password_hash
// is deliberately absent: the hash only travels through GetByEmail, which
// exists for the login flow alone.
const userColumns = "id, name, email, status, role, created_at, updated_at"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// List applies the structured filter and returns one page of users plus
// the total match count for pagination metadata.
func (r *UserRepo) List(ctx context.Context, q *query.ListQuery) ([]*model.User, int64, error) {
	conds, args := filterClauses(q, "")
	cond := whereSQL(conds)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + userColumns + " FROM users WHERE " + cond + orderSQL(q, "") + " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.User, 0, q.Limit)
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches a user without its password hash.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	const q = "SELECT " + userColumns + " FROM users WHERE id = ?"
	u := new(model.User)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail fetches a user including the password hash. Login and the
// old-password check are the only callers.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = "SELECT id, name, email, password_hash, status, role, created_at, updated_at FROM users WHERE email = ?"
	u := new(model.User)
	err := r.db.QueryRowContext(ctx, q, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetHashByID returns only the stored password hash, used to verify the
// old password on credential updates.
func (r *UserRepo) GetHashByID(ctx context.Context, id uint64) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return hash, nil
}

// EmailTaken reports whether another user already owns the email.
// excludeID skips the user being updated; pass 0 on create.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?", email, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the user and reads the row back so store-managed
// timestamps are populated. PasswordHash must already be set by the
// caller; hashing never happens implicitly in the repository.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const qInsert = "INSERT INTO users (name, email, password_hash, status, role) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, u.Name, u.Email, u.PasswordHash, u.Status, u.Role)
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
	u.ID = uint64(id)

	const qSelect = "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, u.ID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Status, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

// UserPatch carries the fields of a partial update. Nil means "leave
// unchanged". PasswordHash is set by the handler after re-hashing a new
// plaintext password.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Status       *string
	Role         *string
}

// Update applies a partial update. A patch with no set fields is a no-op.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch) error {
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
	if p.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *p.PasswordHash)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *p.Role)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil && isDuplicateKey(err) {
		return ErrEmailExists
	}
	return err
}

// Delete hard-deletes a user. Missing rows report ErrUserNotFound.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry for a unique
// index).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
