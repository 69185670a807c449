package order

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/catalog"
)

// PricedLine is the price snapshot for one order line.
// UnitPrice stays unrounded; TotalPrice is rounded half-up to 2 decimal
// places at the end, never at intermediate steps.
type PricedLine struct {
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Quantity   int32
}

// Price computes the unit and total price for a validated selection:
//
//	unit  = variant.Price + Σ(addon.AdditionalPrice × qty) + Σ(comboItem.AdditionalPrice × qty)
//	total = round2(unit × quantity)
func Price(v *catalog.Variant, quantity int32, sel *ValidatedSelection) (PricedLine, error) {
	if v == nil {
		return PricedLine{}, ErrMissingVariant
	}
	if quantity <= 0 {
		return PricedLine{}, ErrInvalidQuantity
	}

	unit := v.Price
	if sel != nil {
		for _, a := range sel.Addons {
			unit = unit.Add(a.Option.AdditionalPrice.Mul(decimal.NewFromInt32(a.Quantity)))
		}
		for _, c := range sel.Combos {
			unit = unit.Add(c.Item.AdditionalPrice.Mul(decimal.NewFromInt32(c.Quantity)))
		}
	}

	// Price components are non-negative by catalog invariant, so a negative
	// unit price can only mean corrupted catalog data.
	if unit.IsNegative() {
		panic(fmt.Sprintf("pricing: negative unit price %s for variant %s", unit, v.ID))
	}

	return PricedLine{
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt32(quantity)).Round(2),
		Quantity:   quantity,
	}, nil
}
