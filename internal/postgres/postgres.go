// Package postgres implements the engine's persistence collaborator:
// catalog lookups, atomic order-item commits with a commit-time stock
// re-check, and serialized ledger mutations for stock and cash registers.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries runs single statements against a pool or transaction.
type Queries struct {
	db DBTX
}

// New creates Queries from a DBTX (pool or tx).
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Store runs the multi-statement transactional operations. Every ledger
// mutation locks the single owning row, so each entity's ledger is
// independently serializable.
type Store struct {
	pool    TxBeginner
	queries *Queries
}

// NewStore creates a Store over a pool that also serves plain queries.
func NewStore(pool TxBeginner, db DBTX) *Store {
	return &Store{pool: pool, queries: New(db)}
}

// Queries exposes the store's non-transactional query layer.
func (s *Store) Queries() *Queries { return s.queries }

// IsSerializationFailure reports a write conflict the caller may retry
// (pg error code 40001).
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}
	return false
}

// --- Numeric helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}
