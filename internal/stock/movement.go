// Package stock models the append-only ingredient/variant stock ledger.
// Balances are a materialized projection of the movement sum; movements are
// never modified once created.
package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/enum"
)

var (
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrInvalidSubtype      = errors.New("subtype not valid for movement type")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
)

// Movement is one immutable ledger entry against an ingredient or variant.
type Movement struct {
	ID        uuid.UUID
	TargetID  uuid.UUID
	Type      string
	Subtype   string
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

var inSubtypes = map[string]bool{
	enum.StockSubtypePurchase:   true,
	enum.StockSubtypeAdjustment: true,
	enum.StockSubtypeReturn:     true,
}

var outSubtypes = map[string]bool{
	enum.StockSubtypeSale:       true,
	enum.StockSubtypeWaste:      true,
	enum.StockSubtypeAdjustment: true,
	enum.StockSubtypeTransfer:   true,
}

// NewMovement validates and builds a ledger entry. Quantity is always the
// positive magnitude; direction comes from the type.
func NewMovement(targetID uuid.UUID, typ, subtype string, quantity, costPrice decimal.Decimal, reason string) (Movement, error) {
	switch typ {
	case enum.StockMovementIn:
		if !inSubtypes[subtype] {
			return Movement{}, fmt.Errorf("%w: %s/%s", ErrInvalidSubtype, typ, subtype)
		}
	case enum.StockMovementOut:
		if !outSubtypes[subtype] {
			return Movement{}, fmt.Errorf("%w: %s/%s", ErrInvalidSubtype, typ, subtype)
		}
	default:
		return Movement{}, fmt.Errorf("%w: %q", ErrInvalidMovementType, typ)
	}
	if !quantity.IsPositive() {
		return Movement{}, ErrInvalidQuantity
	}

	return Movement{
		ID:        uuid.New(),
		TargetID:  targetID,
		Type:      typ,
		Subtype:   subtype,
		Quantity:  quantity,
		CostPrice: costPrice,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SignedQuantity is +quantity for IN and -quantity for OUT.
func (m Movement) SignedQuantity() decimal.Decimal {
	if m.Type == enum.StockMovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Apply recomputes the running balance for one movement. Balances may go
// negative: that is a reporting signal, not an error. Callers wanting a
// strict stock check perform it upstream before the movement is created.
func Apply(balance decimal.Decimal, m Movement) decimal.Decimal {
	return balance.Add(m.SignedQuantity())
}
