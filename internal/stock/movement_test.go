package stock

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/enum"
)

func TestNewMovement_ValidPairs(t *testing.T) {
	cases := []struct {
		typ     string
		subtype string
	}{
		{enum.StockMovementIn, enum.StockSubtypePurchase},
		{enum.StockMovementIn, enum.StockSubtypeAdjustment},
		{enum.StockMovementIn, enum.StockSubtypeReturn},
		{enum.StockMovementOut, enum.StockSubtypeSale},
		{enum.StockMovementOut, enum.StockSubtypeWaste},
		{enum.StockMovementOut, enum.StockSubtypeAdjustment},
		{enum.StockMovementOut, enum.StockSubtypeTransfer},
	}
	for _, c := range cases {
		m, err := NewMovement(uuid.New(), c.typ, c.subtype, decimal.NewFromInt(5), decimal.Zero, "")
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %v", c.typ, c.subtype, err)
			continue
		}
		if m.ID == uuid.Nil {
			t.Errorf("%s/%s: movement id not assigned", c.typ, c.subtype)
		}
	}
}

func TestNewMovement_SubtypeMismatch(t *testing.T) {
	// PURCHASE only flows in, SALE only flows out.
	_, err := NewMovement(uuid.New(), enum.StockMovementOut, enum.StockSubtypePurchase, decimal.NewFromInt(1), decimal.Zero, "")
	if !errors.Is(err, ErrInvalidSubtype) {
		t.Fatalf("expected ErrInvalidSubtype, got: %v", err)
	}
	_, err = NewMovement(uuid.New(), enum.StockMovementIn, enum.StockSubtypeSale, decimal.NewFromInt(1), decimal.Zero, "")
	if !errors.Is(err, ErrInvalidSubtype) {
		t.Fatalf("expected ErrInvalidSubtype, got: %v", err)
	}
}

func TestNewMovement_InvalidType(t *testing.T) {
	_, err := NewMovement(uuid.New(), "SIDEWAYS", enum.StockSubtypeSale, decimal.NewFromInt(1), decimal.Zero, "")
	if !errors.Is(err, ErrInvalidMovementType) {
		t.Fatalf("expected ErrInvalidMovementType, got: %v", err)
	}
}

func TestNewMovement_InvalidQuantity(t *testing.T) {
	for _, q := range []string{"0", "-3"} {
		_, err := NewMovement(uuid.New(), enum.StockMovementIn, enum.StockSubtypePurchase,
			decimal.RequireFromString(q), decimal.Zero, "")
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %s: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestApply_OutDecrements(t *testing.T) {
	m, err := NewMovement(uuid.New(), enum.StockMovementOut, enum.StockSubtypeSale, decimal.NewFromInt(4), decimal.Zero, "")
	if err != nil {
		t.Fatalf("new movement: %v", err)
	}

	got := Apply(decimal.NewFromInt(10), m)
	if !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("balance: got %s, want 6", got)
	}
}

func TestApply_InIncrements(t *testing.T) {
	m, err := NewMovement(uuid.New(), enum.StockMovementIn, enum.StockSubtypePurchase,
		decimal.RequireFromString("2.500"), decimal.RequireFromString("12.40"), "weekly delivery")
	if err != nil {
		t.Fatalf("new movement: %v", err)
	}

	got := Apply(decimal.RequireFromString("0.750"), m)
	if !got.Equal(decimal.RequireFromString("3.250")) {
		t.Errorf("balance: got %s, want 3.250", got)
	}
}

func TestApply_NegativeBalanceAllowed(t *testing.T) {
	// Going negative is a reporting signal, not an error; strict checks
	// happen upstream before the movement exists.
	m, err := NewMovement(uuid.New(), enum.StockMovementOut, enum.StockSubtypeWaste, decimal.NewFromInt(10), decimal.Zero, "spoiled batch")
	if err != nil {
		t.Fatalf("new movement: %v", err)
	}

	got := Apply(decimal.NewFromInt(4), m)
	if !got.Equal(decimal.NewFromInt(-6)) {
		t.Errorf("balance: got %s, want -6", got)
	}
}

func TestSignedQuantity(t *testing.T) {
	in, _ := NewMovement(uuid.New(), enum.StockMovementIn, enum.StockSubtypeReturn, decimal.NewFromInt(3), decimal.Zero, "")
	out, _ := NewMovement(uuid.New(), enum.StockMovementOut, enum.StockSubtypeTransfer, decimal.NewFromInt(3), decimal.Zero, "")

	if !in.SignedQuantity().Equal(decimal.NewFromInt(3)) {
		t.Errorf("in signed: got %s, want 3", in.SignedQuantity())
	}
	if !out.SignedQuantity().Equal(decimal.NewFromInt(-3)) {
		t.Errorf("out signed: got %s, want -3", out.SignedQuantity())
	}
}
