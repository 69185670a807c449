package order

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/catalog"
)

// --- Fixtures ---

// simpleVariant returns a non-combo variant with one addon group
// (min=1, max=1, required) holding two options: free and +2.00.
func simpleVariant() (*catalog.Variant, *catalog.AddonGroup) {
	groupID := uuid.New()
	v := &catalog.Variant{
		ID:    uuid.New(),
		Name:  "Nasi Bakar Ayam",
		Price: decimal.RequireFromString("20.00"),
		AddonGroups: []catalog.AddonGroup{
			{
				ID:         groupID,
				Name:       "Sambal Level",
				MinOptions: 1,
				MaxOptions: 1,
				IsRequired: true,
				Options: []catalog.AddonOption{
					{ID: uuid.New(), GroupID: groupID, Name: "Original", AdditionalPrice: decimal.Zero},
					{ID: uuid.New(), GroupID: groupID, Name: "Extra Spicy", AdditionalPrice: decimal.RequireFromString("2.00")},
				},
			},
		},
	}
	return v, &v.AddonGroups[0]
}

// comboVariant returns a combo with one option group (min=2, max=2) holding
// two zero-priced drink slots.
func comboVariant() (*catalog.Variant, *catalog.ComboOptionGroup) {
	groupID := uuid.New()
	v := &catalog.Variant{
		ID:      uuid.New(),
		Name:    "Paket Hemat",
		Price:   decimal.RequireFromString("30.00"),
		IsCombo: true,
		ComboGroups: []catalog.ComboOptionGroup{
			{
				ID:         groupID,
				Name:       "Pilih Minuman",
				MinOptions: 2,
				MaxOptions: 2,
				IsRequired: true,
				Items: []catalog.ComboOptionItem{
					{ID: uuid.New(), GroupID: groupID, VariantID: uuid.New(), Name: "Es Teh", AdditionalPrice: decimal.Zero, Quantity: 1},
					{ID: uuid.New(), GroupID: groupID, VariantID: uuid.New(), Name: "Es Jeruk", AdditionalPrice: decimal.Zero, Quantity: 1},
				},
			},
		},
	}
	return v, &v.ComboGroups[0]
}

// --- Addon group cardinality ---

func TestValidateSelection_RequiredGroupSatisfied(t *testing.T) {
	v, g := simpleVariant()

	sel, err := ValidateSelection(v, []AddonSelection{
		{OptionID: g.Options[1].ID, Quantity: 1},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Addons) != 1 {
		t.Fatalf("resolved addons: got %d, want 1", len(sel.Addons))
	}
	if sel.Addons[0].Option.ID != g.Options[1].ID {
		t.Errorf("resolved wrong option")
	}
}

func TestValidateSelection_BelowMinimum(t *testing.T) {
	v, g := simpleVariant()

	_, err := ValidateSelection(v, nil, nil)
	if !errors.Is(err, ErrGroupBelowMinimum) {
		t.Fatalf("expected ErrGroupBelowMinimum, got: %v", err)
	}
	var ge *GroupError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GroupError, got: %T", err)
	}
	if ge.GroupID != g.ID {
		t.Errorf("group id: got %s, want %s", ge.GroupID, g.ID)
	}
}

func TestValidateSelection_ExceedsMaximum(t *testing.T) {
	v, g := simpleVariant()

	// Two distinct options selected in a max=1 group: sum 2 > 1.
	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: g.Options[0].ID, Quantity: 1},
		{OptionID: g.Options[1].ID, Quantity: 1},
	}, nil)
	if !errors.Is(err, ErrGroupExceedsMax) {
		t.Fatalf("expected ErrGroupExceedsMax, got: %v", err)
	}
	var ge *GroupError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GroupError, got: %T", err)
	}
	if ge.GroupID != g.ID || ge.Sum != 2 {
		t.Errorf("GroupError fields: got group %s sum %d, want group %s sum 2", ge.GroupID, ge.Sum, g.ID)
	}
}

func TestValidateSelection_SingleOptionQtyOverMax(t *testing.T) {
	v, g := simpleVariant()

	// The rule is numeric over the group sum, so one line with qty 2 also
	// trips max=1.
	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: g.Options[0].ID, Quantity: 2},
	}, nil)
	if !errors.Is(err, ErrGroupExceedsMax) {
		t.Fatalf("expected ErrGroupExceedsMax, got: %v", err)
	}
}

func TestValidateSelection_UnboundedMax(t *testing.T) {
	groupID := uuid.New()
	v := &catalog.Variant{
		ID:    uuid.New(),
		Price: decimal.RequireFromString("10.00"),
		AddonGroups: []catalog.AddonGroup{
			{
				ID:         groupID,
				MaxOptions: 0, // unbounded
				Options: []catalog.AddonOption{
					{ID: uuid.New(), GroupID: groupID, AdditionalPrice: decimal.RequireFromString("1.00")},
				},
			},
		},
	}

	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: v.AddonGroups[0].Options[0].ID, Quantity: 99},
	}, nil)
	if err != nil {
		t.Fatalf("unbounded group rejected large quantity: %v", err)
	}
}

func TestValidateSelection_OptionalGroupEmptyOK(t *testing.T) {
	groupID := uuid.New()
	v := &catalog.Variant{
		ID:    uuid.New(),
		Price: decimal.RequireFromString("10.00"),
		AddonGroups: []catalog.AddonGroup{
			{
				ID:         groupID,
				MinOptions: 0,
				MaxOptions: 3,
				IsRequired: false,
				Options: []catalog.AddonOption{
					{ID: uuid.New(), GroupID: groupID},
				},
			},
		},
	}

	sel, err := ValidateSelection(v, nil, nil)
	if err != nil {
		t.Fatalf("optional empty group should validate: %v", err)
	}
	if len(sel.Addons) != 0 {
		t.Errorf("expected no resolved addons, got %d", len(sel.Addons))
	}
}

// --- Filtering and resolution ---

func TestValidateSelection_ZeroQuantityFiltered(t *testing.T) {
	v, g := simpleVariant()

	// A zero-qty line is "not selected": it must not satisfy the minimum.
	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: g.Options[0].ID, Quantity: 0},
	}, nil)
	if !errors.Is(err, ErrGroupBelowMinimum) {
		t.Fatalf("expected ErrGroupBelowMinimum, got: %v", err)
	}

	// And a negative line must not count against the maximum either.
	sel, err := ValidateSelection(v, []AddonSelection{
		{OptionID: g.Options[0].ID, Quantity: -3},
		{OptionID: g.Options[1].ID, Quantity: 1},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Addons) != 1 {
		t.Errorf("filtered lines must not be stored: got %d resolved", len(sel.Addons))
	}
}

func TestValidateSelection_UnknownOption(t *testing.T) {
	v, _ := simpleVariant()
	strangerID := uuid.New()

	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: strangerID, Quantity: 1},
	}, nil)
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got: %v", err)
	}
	var se *SelectionError
	if !errors.As(err, &se) {
		t.Fatalf("expected SelectionError, got: %T", err)
	}
	if se.ID != strangerID {
		t.Errorf("selection error id: got %s, want %s", se.ID, strangerID)
	}
}

func TestValidateSelection_NilVariant(t *testing.T) {
	_, err := ValidateSelection(nil, nil, nil)
	if !errors.Is(err, ErrMissingVariant) {
		t.Fatalf("expected ErrMissingVariant, got: %v", err)
	}
}

// --- Combo option groups ---

func TestValidateSelection_ComboExactlyTwo(t *testing.T) {
	v, g := comboVariant()

	sel, err := ValidateSelection(v, nil, []ComboSelection{
		{GroupID: g.ID, ItemID: g.Items[0].ID, Quantity: 1},
		{GroupID: g.ID, ItemID: g.Items[1].ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Combos) != 2 {
		t.Fatalf("resolved combos: got %d, want 2", len(sel.Combos))
	}
}

func TestValidateSelection_ComboOnlyOneSelected(t *testing.T) {
	v, g := comboVariant()

	_, err := ValidateSelection(v, nil, []ComboSelection{
		{GroupID: g.ID, ItemID: g.Items[0].ID, Quantity: 1},
	})
	if !errors.Is(err, ErrGroupBelowMinimum) {
		t.Fatalf("expected ErrGroupBelowMinimum, got: %v", err)
	}
}

func TestValidateSelection_ComboOnNonComboVariant(t *testing.T) {
	v, _ := simpleVariant()
	_, cg := comboVariant()

	_, err := ValidateSelection(v,
		[]AddonSelection{{OptionID: v.AddonGroups[0].Options[0].ID, Quantity: 1}},
		[]ComboSelection{{GroupID: cg.ID, ItemID: cg.Items[0].ID, Quantity: 1}},
	)
	if !errors.Is(err, ErrComboNotSupported) {
		t.Fatalf("expected ErrComboNotSupported, got: %v", err)
	}
}

func TestValidateSelection_UnknownComboGroup(t *testing.T) {
	v, g := comboVariant()

	_, err := ValidateSelection(v, nil, []ComboSelection{
		{GroupID: uuid.New(), ItemID: g.Items[0].ID, Quantity: 1},
	})
	if !errors.Is(err, ErrUnknownComboGroup) {
		t.Fatalf("expected ErrUnknownComboGroup, got: %v", err)
	}
}

func TestValidateSelection_UnknownComboItem(t *testing.T) {
	v, g := comboVariant()

	_, err := ValidateSelection(v, nil, []ComboSelection{
		{GroupID: g.ID, ItemID: uuid.New(), Quantity: 1},
	})
	if !errors.Is(err, ErrUnknownComboItem) {
		t.Fatalf("expected ErrUnknownComboItem, got: %v", err)
	}
}

func TestValidateSelection_GroupsIndependent(t *testing.T) {
	// Two addon groups: satisfying one must not satisfy the other.
	g1 := uuid.New()
	g2 := uuid.New()
	v := &catalog.Variant{
		ID:    uuid.New(),
		Price: decimal.RequireFromString("15.00"),
		AddonGroups: []catalog.AddonGroup{
			{ID: g1, MinOptions: 1, IsRequired: true, Options: []catalog.AddonOption{{ID: uuid.New(), GroupID: g1}}},
			{ID: g2, MinOptions: 1, IsRequired: true, Options: []catalog.AddonOption{{ID: uuid.New(), GroupID: g2}}},
		},
	}

	_, err := ValidateSelection(v, []AddonSelection{
		{OptionID: v.AddonGroups[0].Options[0].ID, Quantity: 1},
	}, nil)
	if !errors.Is(err, ErrGroupBelowMinimum) {
		t.Fatalf("expected ErrGroupBelowMinimum for the second group, got: %v", err)
	}
	var ge *GroupError
	if errors.As(err, &ge) && ge.GroupID != g2 {
		t.Errorf("failing group: got %s, want %s", ge.GroupID, g2)
	}
}
