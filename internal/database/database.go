package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"assixx/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

// SQLDB wraps the sql.DB handle together with the active driver so
// repositories can write queries with `?` placeholders and rebind them
// for postgres.
type SQLDB struct {
	DB     *sql.DB
	Driver string
}

// NewDatabase opens the relational store with lifecycle management.
// The driver is switchable between mysql and postgres; all repositories
// go through Rebind so both work from the same query text.
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*SQLDB, error) {
	driver := cfg.DBDriver
	if driver != "mysql" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := sql.Open(driver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Connected to %s!", driver)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing database connection...")
			return db.Close()
		},
	})

	return &SQLDB{DB: db, Driver: driver}, nil
}

// Rebind rewrites `?` placeholders to `$1..$n` when the active driver is
// postgres. Question marks inside quoted literals are not supported;
// queries keep values in the args slice.
func (d *SQLDB) Rebind(query string) string {
	if d.Driver != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Execer covers *sql.DB and *sql.Tx so inserts work the same inside
// and outside a transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// InsertReturningID runs an INSERT written with `?` placeholders and
// returns the generated id. mysql reports it through LastInsertId;
// lib/pq does not implement LastInsertId, so postgres appends
// RETURNING id and scans the row instead.
func (d *SQLDB) InsertReturningID(ctx context.Context, run Execer, query string, args ...interface{}) (int64, error) {
	if d.Driver == "postgres" {
		var id int64
		err := run.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	res, err := run.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
func (d *SQLDB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
