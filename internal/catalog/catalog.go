// Package catalog holds the menu data model consumed by the order engine:
// sellable variants with their addon groups and combo option groups.
// Values are loaded fully resolved by the store; the engine never reaches
// back into persistence while validating or pricing.
package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrGroupBounds   = errors.New("min_options must be >= 0 and <= max_options")
	ErrOptionOrphan  = errors.New("option does not reference its owning group")
	ErrNegativePrice = errors.New("additional_price must not be negative")
)

// Variant is the sellable unit: a specific configuration of a product,
// the thing actually priced and stocked.
type Variant struct {
	ID            uuid.UUID
	Name          string
	Price         decimal.Decimal
	CostPrice     decimal.Decimal
	StockQuantity decimal.Decimal
	ManageStock   bool
	IsCombo       bool

	AddonGroups []AddonGroup
	ComboGroups []ComboOptionGroup
	ComboItems  []ComboItem
}

// AddonGroup constrains how many options out of Options may be selected.
// MaxOptions == 0 means unbounded.
type AddonGroup struct {
	ID         uuid.UUID
	Name       string
	MinOptions int32
	MaxOptions int32
	IsRequired bool
	Options    []AddonOption
}

// AddonOption is a selectable extra priced on top of the variant.
type AddonOption struct {
	ID              uuid.UUID
	GroupID         uuid.UUID
	Name            string
	AdditionalPrice decimal.Decimal
}

// ComboOptionGroup constrains which sub-variants a combo lets the
// customer pick, with the same cardinality rules as AddonGroup.
type ComboOptionGroup struct {
	ID         uuid.UUID
	Name       string
	MinOptions int32
	MaxOptions int32
	IsRequired bool
	Items      []ComboOptionItem
}

// ComboOptionItem is a candidate sub-variant inside a combo option group.
// Quantity is the per-unit multiplier applied when the item is selected.
type ComboOptionItem struct {
	ID              uuid.UUID
	GroupID         uuid.UUID
	VariantID       uuid.UUID
	Name            string
	AdditionalPrice decimal.Decimal
	Quantity        int32
}

// ComboItem is a fixed component of a combo variant. Fixed components are
// carried on the order graph for kitchen routing but carry no price of
// their own; pricing lives on the selectable option items.
type ComboItem struct {
	ID        uuid.UUID
	ComboID   uuid.UUID
	VariantID uuid.UUID
	Quantity  int32
}

// Validate checks the structural invariants of the group definition.
func (g *AddonGroup) Validate() error {
	if err := checkBounds(g.MinOptions, g.MaxOptions); err != nil {
		return fmt.Errorf("addon group %s: %w", g.ID, err)
	}
	for _, opt := range g.Options {
		if opt.GroupID != g.ID {
			return fmt.Errorf("addon option %s: %w", opt.ID, ErrOptionOrphan)
		}
		if opt.AdditionalPrice.IsNegative() {
			return fmt.Errorf("addon option %s: %w", opt.ID, ErrNegativePrice)
		}
	}
	return nil
}

// Validate checks the structural invariants of the group definition.
func (g *ComboOptionGroup) Validate() error {
	if err := checkBounds(g.MinOptions, g.MaxOptions); err != nil {
		return fmt.Errorf("combo option group %s: %w", g.ID, err)
	}
	for _, item := range g.Items {
		if item.GroupID != g.ID {
			return fmt.Errorf("combo option item %s: %w", item.ID, ErrOptionOrphan)
		}
		if item.AdditionalPrice.IsNegative() {
			return fmt.Errorf("combo option item %s: %w", item.ID, ErrNegativePrice)
		}
	}
	return nil
}

func checkBounds(min, max int32) error {
	if min < 0 {
		return ErrGroupBounds
	}
	if max != 0 && min > max {
		return ErrGroupBounds
	}
	return nil
}

// AddonOptionByID resolves an addon option across all groups of the variant.
// The second return is the owning group.
func (v *Variant) AddonOptionByID(id uuid.UUID) (*AddonOption, *AddonGroup, bool) {
	for gi := range v.AddonGroups {
		g := &v.AddonGroups[gi]
		for oi := range g.Options {
			if g.Options[oi].ID == id {
				return &g.Options[oi], g, true
			}
		}
	}
	return nil, nil, false
}

// ComboGroupByID resolves a combo option group attached to the variant.
func (v *Variant) ComboGroupByID(id uuid.UUID) (*ComboOptionGroup, bool) {
	for gi := range v.ComboGroups {
		if v.ComboGroups[gi].ID == id {
			return &v.ComboGroups[gi], true
		}
	}
	return nil, false
}

// ItemByID resolves a combo option item inside the group.
func (g *ComboOptionGroup) ItemByID(id uuid.UUID) (*ComboOptionItem, bool) {
	for i := range g.Items {
		if g.Items[i].ID == id {
			return &g.Items[i], true
		}
	}
	return nil, false
}
