package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactSelectSQL = "SELECT c.id, c.name, c.email, c.status, c.customer_id, " +
	"c.created_at, c.updated_at, cu.id, cu.status, cu.email " +
	"FROM contacts c JOIN customers cu ON cu.id = c.customer_id"

var contactCols = []string{"id", "name", "email", "status", "customer_id",
	"created_at", "updated_at", "cu_id", "cu_status", "cu_email"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestContactGetScopedToCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepo(db)

	// The contact exists, but under another customer: the joint key query
	// matches nothing and the caller sees not-found, not forbidden.
	mock.ExpectQuery(contactSelectSQL + " WHERE c.id = ? AND c.customer_id = ?").
		WithArgs(3, 99).
		WillReturnRows(sqlmock.NewRows(contactCols))

	ct, err := repo.GetByIDAndCustomer(context.Background(), 3, 99)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.Nil(t, ct)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactDeleteScopedToCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepo(db)

	mock.ExpectExec("DELETE FROM contacts WHERE id = ? AND customer_id = ?").
		WithArgs(3, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3, 99)
	assert.ErrorIs(t, err, ErrContactNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactGetIncludesParentProjection(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepo(db)

	rows := sqlmock.NewRows(contactCols).
		AddRow(3, "Ops Desk", "ops@acme.io", "ACTIVE", 7, fixedTime(), fixedTime(), 7, "ACTIVE", "hello@acme.io")
	mock.ExpectQuery(contactSelectSQL + " WHERE c.id = ? AND c.customer_id = ?").
		WithArgs(3, 7).
		WillReturnRows(rows)

	ct, err := repo.GetByIDAndCustomer(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), ct.ID)
	assert.Equal(t, uint64(7), ct.CustomerID)
	require.NotNil(t, ct.Customer)
	assert.Equal(t, uint64(7), ct.Customer.ID)
	assert.Equal(t, "hello@acme.io", ct.Customer.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
