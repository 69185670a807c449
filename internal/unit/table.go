// Package unit resolves quantity conversions between measurement units
// via a table of directed factors (e.g. kg→g factor 1000).
package unit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidFactor       = errors.New("conversion factor must be > 0")
	ErrDuplicateConversion = errors.New("duplicate conversion pair")
	ErrSameUnitConversion  = errors.New("conversion must relate two distinct units")
)

// ConversionNotFoundError reports a unit pair with neither a direct nor an
// inverse stored factor.
type ConversionNotFoundError struct {
	From uuid.UUID
	To   uuid.UUID
}

func (e *ConversionNotFoundError) Error() string {
	return fmt.Sprintf("no conversion between units %s and %s", e.From, e.To)
}

// Conversion is a directed factor: value(From) × Factor = value(To).
type Conversion struct {
	FromUnitID uuid.UUID
	ToUnitID   uuid.UUID
	Factor     decimal.Decimal
}

type pairKey struct {
	from uuid.UUID
	to   uuid.UUID
}

// Table resolves conversions by direct lookup, falling back to dividing by
// the inverse pair's factor. No transitive chaining through a third unit:
// a missing direct or inverse pair is always an error, even when a path
// exists through other units.
type Table struct {
	factors map[pairKey]decimal.Decimal
}

// NewTable builds a lookup table, rejecting non-positive factors, identity
// pairs and duplicate pairs.
func NewTable(conversions []Conversion) (*Table, error) {
	t := &Table{factors: make(map[pairKey]decimal.Decimal, len(conversions))}
	for i, c := range conversions {
		if c.FromUnitID == c.ToUnitID {
			return nil, fmt.Errorf("conversions[%d]: %w", i, ErrSameUnitConversion)
		}
		if !c.Factor.IsPositive() {
			return nil, fmt.Errorf("conversions[%d]: %w", i, ErrInvalidFactor)
		}
		key := pairKey{from: c.FromUnitID, to: c.ToUnitID}
		if _, exists := t.factors[key]; exists {
			return nil, fmt.Errorf("conversions[%d]: %w", i, ErrDuplicateConversion)
		}
		t.factors[key] = c.Factor
	}
	return t, nil
}

// Convert translates value from one unit to another. Identical units return
// the value unchanged with no lookup. The inverse fallback divides at read
// time; it never inverts-and-stores.
func (t *Table) Convert(value decimal.Decimal, from, to uuid.UUID) (decimal.Decimal, error) {
	if from == to {
		return value, nil
	}
	if factor, ok := t.factors[pairKey{from: from, to: to}]; ok {
		return value.Mul(factor), nil
	}
	if factor, ok := t.factors[pairKey{from: to, to: from}]; ok {
		return value.Div(factor), nil
	}
	return decimal.Decimal{}, &ConversionNotFoundError{From: from, To: to}
}
