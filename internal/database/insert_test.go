package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReturningIDMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := &SQLDB{DB: db, Driver: "mysql"}

	mock.ExpectExec("INSERT INTO things").
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := d.InsertReturningID(context.Background(), d.DB, `INSERT INTO things (name) VALUES (?)`, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// lib/pq has no LastInsertId, so the postgres path must go through a
// RETURNING clause instead of Exec.
func TestInsertReturningIDPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := &SQLDB{DB: db, Driver: "postgres"}

	mock.ExpectQuery(`INSERT INTO things \(name\) VALUES \(\$1\) RETURNING id`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := d.InsertReturningID(context.Background(), d.DB, `INSERT INTO things (name) VALUES (?)`, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturningIDPostgresScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := &SQLDB{DB: db, Driver: "postgres"}

	mock.ExpectQuery("INSERT INTO things").
		WillReturnError(assert.AnError)

	_, err = d.InsertReturningID(context.Background(), d.DB, `INSERT INTO things (name) VALUES (?)`, "a")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
