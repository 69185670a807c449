package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/stock"
)

const maxLedgerRetries = 3

// ErrTargetNotFound means the movement target resolves to neither an
// ingredient nor a variant.
var ErrTargetNotFound = errors.New("stock target not found")

// ApplyStockMovementParams identifies one ledger entry to append.
type ApplyStockMovementParams struct {
	TargetID  uuid.UUID
	Type      string
	Subtype   string
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal
	Reason    string
}

// ApplyStockMovement appends a movement and updates the target's
// materialized balance under an exclusive row lock. The returned value is
// the new balance. Write conflicts retry a bounded number of times.
func (s *Store) ApplyStockMovement(ctx context.Context, p ApplyStockMovementParams) (decimal.Decimal, error) {
	m, err := stock.NewMovement(p.TargetID, p.Type, p.Subtype, p.Quantity, p.CostPrice, p.Reason)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var lastErr error
	for attempt := 0; attempt < maxLedgerRetries; attempt++ {
		balance, err := s.applyStockMovementTx(ctx, m)
		if err == nil {
			return balance, nil
		}
		if IsSerializationFailure(err) {
			lastErr = err
			continue
		}
		return decimal.Decimal{}, err
	}
	return decimal.Decimal{}, lastErr
}

func (s *Store) applyStockMovementTx(ctx context.Context, m stock.Movement) (decimal.Decimal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	table, balance, err := lockTargetBalance(ctx, tx, m.TargetID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	newBalance := stock.Apply(balance, m)

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (id, target_id, movement_type, subtype, quantity, cost_price, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.TargetID, m.Type, m.Subtype,
		decimalToNumeric(m.Quantity), decimalToNumeric(m.CostPrice), m.Reason, m.CreatedAt)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("insert stock movement: %w", err)
	}

	_, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET stock_quantity = $1 WHERE id = $2`, table),
		decimalToNumeric(newBalance), m.TargetID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Decimal{}, fmt.Errorf("commit tx: %w", err)
	}
	return newBalance, nil
}

// lockTargetBalance takes the row lock on the owning entity — ingredients
// first, variants as fallback — and returns its table name and balance.
func lockTargetBalance(ctx context.Context, tx pgx.Tx, targetID uuid.UUID) (string, decimal.Decimal, error) {
	var qty pgtype.Numeric
	err := tx.QueryRow(ctx, `
		SELECT stock_quantity FROM ingredients WHERE id = $1 FOR UPDATE
	`, targetID).Scan(&qty)
	if err == nil {
		return "ingredients", numericToDecimal(qty), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", decimal.Decimal{}, fmt.Errorf("lock ingredient: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT stock_quantity FROM variants WHERE id = $1 FOR UPDATE
	`, targetID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", decimal.Decimal{}, ErrTargetNotFound
		}
		return "", decimal.Decimal{}, fmt.Errorf("lock variant: %w", err)
	}
	return "variants", numericToDecimal(qty), nil
}
