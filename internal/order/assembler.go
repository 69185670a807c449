package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/catalog"
)

// CatalogStore defines the lookup the assembler needs.
// Satisfied by *postgres.Queries; narrow interface for testability.
type CatalogStore interface {
	// GetVariantForOrder returns the variant with its addon groups, combo
	// option groups and fixed combo items fully resolved.
	GetVariantForOrder(ctx context.Context, id uuid.UUID) (*catalog.Variant, error)
}

// AssembleRequest is the validated input for building one order line.
type AssembleRequest struct {
	VariantID uuid.UUID
	Quantity  int32
	Addons    []AddonSelection
	Combos    []ComboSelection
}

// OrderItem is one line of an order with its resolved children.
// Immutable once persisted; children are exclusively owned.
type OrderItem struct {
	ID         uuid.UUID
	VariantID  uuid.UUID
	Quantity   int32
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal

	Options      []OrderItemOption
	ComboOptions []OrderItemComboOption
}

// OrderItemOption is a resolved addon group selection on an order item.
type OrderItemOption struct {
	ID            uuid.UUID
	AddonGroupID  uuid.UUID
	AddonOptionID uuid.UUID
	Quantity      int32
	UnitPrice     decimal.Decimal
}

// OrderItemComboOption is a resolved combo option group selection.
type OrderItemComboOption struct {
	ID                uuid.UUID
	ComboGroupID      uuid.UUID
	ComboOptionItemID uuid.UUID
	VariantID         uuid.UUID
	Quantity          int32
	UnitPrice         decimal.Decimal
}

// StockDecrement tells the storage layer which decrement to re-validate and
// apply atomically with the commit of the graph.
type StockDecrement struct {
	VariantID uuid.UUID
	Quantity  decimal.Decimal
}

// OrderItemGraph is the assembler's output: a committed-ready order item tree
// plus the stock decrement the caller must apply transactionally, if any.
type OrderItemGraph struct {
	Item           OrderItem
	StockDecrement *StockDecrement
}

// Assembler turns a cart-like request into a validated, priced order item
// graph. Pure read+compute pipeline: it performs no mutation; persistence and
// the stock decrement are the caller's transaction.
type Assembler struct {
	store CatalogStore
}

// NewAssembler creates a new Assembler.
func NewAssembler(store CatalogStore) *Assembler {
	return &Assembler{store: store}
}

// Assemble resolves the variant, validates the selection, performs the
// advisory stock check, prices the line and builds the order item graph.
//
// The stock check here is read-then-decide: the storage layer must re-validate
// the decrement at commit time to close the race.
func (a *Assembler) Assemble(ctx context.Context, req AssembleRequest) (*OrderItemGraph, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	variant, err := a.store.GetVariantForOrder(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	sel, err := ValidateSelection(variant, req.Addons, req.Combos)
	if err != nil {
		return nil, err
	}

	requested := decimal.NewFromInt32(req.Quantity)
	if variant.ManageStock && variant.StockQuantity.LessThan(requested) {
		return nil, &InsufficientStockError{
			VariantID: variant.ID,
			Available: variant.StockQuantity.String(),
			Requested: requested.String(),
		}
	}

	priced, err := Price(variant, req.Quantity, sel)
	if err != nil {
		return nil, err
	}

	item := OrderItem{
		ID:         uuid.New(),
		VariantID:  variant.ID,
		Quantity:   req.Quantity,
		UnitPrice:  priced.UnitPrice,
		TotalPrice: priced.TotalPrice,
	}
	for _, ra := range sel.Addons {
		item.Options = append(item.Options, OrderItemOption{
			ID:            uuid.New(),
			AddonGroupID:  ra.Group.ID,
			AddonOptionID: ra.Option.ID,
			Quantity:      ra.Quantity,
			UnitPrice:     ra.Option.AdditionalPrice,
		})
	}
	for _, c := range sel.Combos {
		item.ComboOptions = append(item.ComboOptions, OrderItemComboOption{
			ID:                uuid.New(),
			ComboGroupID:      c.Group.ID,
			ComboOptionItemID: c.Item.ID,
			VariantID:         c.Item.VariantID,
			Quantity:          c.Quantity,
			UnitPrice:         c.Item.AdditionalPrice,
		})
	}

	graph := &OrderItemGraph{Item: item}
	if variant.ManageStock {
		graph.StockDecrement = &StockDecrement{VariantID: variant.ID, Quantity: requested}
	}
	return graph, nil
}
