package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/cash"
)

// ErrRegisterNotFound means no register session exists with the given id.
var ErrRegisterNotFound = errors.New("cash register not found")

// OpenRegister starts a new session and records its opening movement.
func (s *Store) OpenRegister(ctx context.Context, openingAmount decimal.Decimal, openedAt time.Time) (*cash.Register, error) {
	r, err := cash.Open(openingAmount, openedAt)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO cash_registers (id, opening_amount, status, opened_at)
		VALUES ($1, $2, $3, $4)
	`, r.ID, decimalToNumeric(r.OpeningAmount), r.Status, r.OpenedAt)
	if err != nil {
		return nil, fmt.Errorf("insert register: %w", err)
	}
	if err := insertCashMovement(ctx, tx, r.Movements[0]); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return r, nil
}

// RecordCashMovement appends a movement to an open session. The register row
// is locked for the duration so concurrent records serialize per register.
func (s *Store) RecordCashMovement(ctx context.Context, registerID uuid.UUID, typ string, amount decimal.Decimal, source *cash.Source, at time.Time) (*cash.Movement, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	r, err := lockRegister(ctx, tx, registerID, false)
	if err != nil {
		return nil, err
	}

	m, err := r.Record(typ, amount, source, at)
	if err != nil {
		return nil, err
	}
	if err := insertCashMovement(ctx, tx, *m); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return m, nil
}

// CloseRegister reconciles and seals a session. The system balance is
// recomputed from the movement ledger inside the transaction, never read
// from the cached snapshot columns.
func (s *Store) CloseRegister(ctx context.Context, registerID uuid.UUID, countedAmount decimal.Decimal, closedAt time.Time) (*cash.ClosingReport, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	r, err := lockRegister(ctx, tx, registerID, true)
	if err != nil {
		return nil, err
	}

	report, err := r.Close(countedAmount, closedAt)
	if err != nil {
		return nil, err
	}

	// Last movement is the synthetic closing entry appended by Close.
	if err := insertCashMovement(ctx, tx, r.Movements[len(r.Movements)-1]); err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE cash_registers
		SET status = $1, closing_amount = $2, system_balance = $3, difference = $4, closed_at = $5
		WHERE id = $6
	`, r.Status, decimalToNumeric(report.CountedAmount), decimalToNumeric(report.SystemBalance),
		decimalToNumeric(report.Difference), closedAt, r.ID)
	if err != nil {
		return nil, fmt.Errorf("update register: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return report, nil
}

// lockRegister loads the register under FOR UPDATE, optionally with its full
// movement ledger (needed by close, skipped by record).
func lockRegister(ctx context.Context, tx pgx.Tx, id uuid.UUID, withMovements bool) (*cash.Register, error) {
	var (
		r       cash.Register
		opening pgtype.Numeric
	)
	err := tx.QueryRow(ctx, `
		SELECT id, opening_amount, status, opened_at, closed_at
		FROM cash_registers
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&r.ID, &opening, &r.Status, &r.OpenedAt, &r.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegisterNotFound
		}
		return nil, fmt.Errorf("lock register: %w", err)
	}
	r.OpeningAmount = numericToDecimal(opening)

	if !withMovements {
		return &r, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT id, register_id, movement_type, amount, source_kind, source_id, created_at
		FROM cash_movements
		WHERE register_id = $1
		ORDER BY created_at, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m          cash.Movement
			amount     pgtype.Numeric
			sourceKind pgtype.Text
			sourceID   pgtype.UUID
		)
		if err := rows.Scan(&m.ID, &m.RegisterID, &m.Type, &amount, &sourceKind, &sourceID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Amount = numericToDecimal(amount)
		if sourceKind.Valid && sourceID.Valid {
			m.Source = &cash.Source{Kind: sourceKind.String, ID: sourceID.Bytes}
		}
		r.Movements = append(r.Movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

func insertCashMovement(ctx context.Context, tx pgx.Tx, m cash.Movement) error {
	sourceKind := pgtype.Text{}
	sourceID := pgtype.UUID{}
	if m.Source != nil {
		sourceKind = pgtype.Text{String: m.Source.Kind, Valid: true}
		sourceID = pgtype.UUID{Bytes: m.Source.ID, Valid: true}
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO cash_movements (id, register_id, movement_type, amount, source_kind, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.RegisterID, m.Type, decimalToNumeric(m.Amount), sourceKind, sourceID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}
