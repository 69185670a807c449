package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/warung-pos/engine/internal/unit"
)

// ListConversions returns every stored unit conversion factor.
func (q *Queries) ListConversions(ctx context.Context) ([]unit.Conversion, error) {
	rows, err := q.db.Query(ctx, `
		SELECT from_unit_id, to_unit_id, factor
		FROM unit_conversions
		ORDER BY from_unit_id, to_unit_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversions []unit.Conversion
	for rows.Next() {
		var (
			c      unit.Conversion
			factor pgtype.Numeric
		)
		if err := rows.Scan(&c.FromUnitID, &c.ToUnitID, &factor); err != nil {
			return nil, err
		}
		c.Factor = numericToDecimal(factor)
		conversions = append(conversions, c)
	}
	return conversions, rows.Err()
}

// LoadConversionTable builds the conversion lookup table from storage.
func (q *Queries) LoadConversionTable(ctx context.Context) (*unit.Table, error) {
	conversions, err := q.ListConversions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	return unit.NewTable(conversions)
}
