package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/warung-pos/engine/internal/catalog"
)

// AddonSelection is one requested addon option line.
type AddonSelection struct {
	OptionID uuid.UUID
	Quantity int32
}

// ComboSelection is one requested combo option line, scoped to its group.
type ComboSelection struct {
	GroupID  uuid.UUID
	ItemID   uuid.UUID
	Quantity int32
}

// ResolvedAddon is an addon selection resolved against the variant's groups.
type ResolvedAddon struct {
	Group    *catalog.AddonGroup
	Option   *catalog.AddonOption
	Quantity int32
}

// ResolvedComboOption is a combo selection resolved against the variant's groups.
type ResolvedComboOption struct {
	Group    *catalog.ComboOptionGroup
	Item     *catalog.ComboOptionItem
	Quantity int32
}

// ValidatedSelection is the validator's output: fully resolved references in
// request order, ready for pricing.
type ValidatedSelection struct {
	Addons []ResolvedAddon
	Combos []ResolvedComboOption
}

// ValidateSelection checks a requested combination of addon options and combo
// option items against each group's cardinality rules. Pure function: no side
// effects, no lookups beyond the provided variant.
//
// Lines with quantity <= 0 are treated as not selected and filtered before any
// rule runs, so an unchecked UI control never trips a group maximum.
func ValidateSelection(v *catalog.Variant, addons []AddonSelection, combos []ComboSelection) (*ValidatedSelection, error) {
	if v == nil {
		return nil, ErrMissingVariant
	}

	sel := &ValidatedSelection{}

	// --- Resolve addon selections ---
	addonSums := make(map[uuid.UUID]int32)
	for i, a := range addons {
		if a.Quantity <= 0 {
			continue
		}
		opt, grp, ok := v.AddonOptionByID(a.OptionID)
		if !ok {
			return nil, fmt.Errorf("addons[%d]: %w", i, &SelectionError{ID: a.OptionID, err: ErrUnknownOption})
		}
		addonSums[grp.ID] += a.Quantity
		sel.Addons = append(sel.Addons, ResolvedAddon{Group: grp, Option: opt, Quantity: a.Quantity})
	}

	// --- Resolve combo selections ---
	comboSums := make(map[uuid.UUID]int32)
	for i, c := range combos {
		if c.Quantity <= 0 {
			continue
		}
		if !v.IsCombo {
			return nil, fmt.Errorf("combos[%d]: %w", i, ErrComboNotSupported)
		}
		grp, ok := v.ComboGroupByID(c.GroupID)
		if !ok {
			return nil, fmt.Errorf("combos[%d]: %w", i, &SelectionError{ID: c.GroupID, err: ErrUnknownComboGroup})
		}
		item, ok := grp.ItemByID(c.ItemID)
		if !ok {
			return nil, fmt.Errorf("combos[%d]: %w", i, &SelectionError{ID: c.ItemID, err: ErrUnknownComboItem})
		}
		comboSums[grp.ID] += c.Quantity
		sel.Combos = append(sel.Combos, ResolvedComboOption{Group: grp, Item: item, Quantity: c.Quantity})
	}

	// --- Cardinality, each group independent of the others ---
	for gi := range v.AddonGroups {
		g := &v.AddonGroups[gi]
		if err := checkGroup(g.ID, addonSums[g.ID], g.MinOptions, g.MaxOptions, g.IsRequired); err != nil {
			return nil, err
		}
	}
	for gi := range v.ComboGroups {
		g := &v.ComboGroups[gi]
		if err := checkGroup(g.ID, comboSums[g.ID], g.MinOptions, g.MaxOptions, g.IsRequired); err != nil {
			return nil, err
		}
	}

	return sel, nil
}

// checkGroup applies the cardinality rule to one group. The minimum binds when
// the group is required or declares min > 0; max == 0 means unbounded. The rule
// is purely numeric over the quantity sum: max == 1 gives exclusive-choice
// semantics without capping individual line quantities.
func checkGroup(groupID uuid.UUID, sum, min, max int32, required bool) error {
	if (required || min > 0) && sum < min {
		return &GroupError{GroupID: groupID, Sum: sum, Min: min, Max: max, err: ErrGroupBelowMinimum}
	}
	if max != 0 && sum > max {
		return &GroupError{GroupID: groupID, Sum: sum, Min: min, Max: max, err: ErrGroupExceedsMax}
	}
	return nil
}
