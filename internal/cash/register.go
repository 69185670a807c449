// Package cash models a cash register session: an opening balance, an
// append-only movement ledger, and a one-way Open → Closed state machine.
// Balances are always derived from the ledger; the persisted closing fields
// are a snapshot recomputed at close, never the source of truth.
package cash

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/engine/internal/enum"
)

var (
	ErrRegisterClosed       = errors.New("register is closed")
	ErrInvalidAmount        = errors.New("amount must be > 0")
	ErrNegativeOpening      = errors.New("opening amount must not be negative")
	ErrInvalidMovementType  = errors.New("invalid cash movement type")
	ErrReservedMovementType = errors.New("opening/closing movements are recorded by the session itself")
)

// Deviation classification labels on the closing report.
const (
	DeviationBalanced = "BALANCED"
	DeviationOverage  = "OVERAGE"
	DeviationShortage = "SHORTAGE"
)

// Source is a polymorphic reference to whatever caused a movement,
// expressed as a tagged kind plus id.
type Source struct {
	Kind string
	ID   uuid.UUID
}

// Movement is one immutable entry in the register ledger.
type Movement struct {
	ID         uuid.UUID
	RegisterID uuid.UUID
	Type       string
	Amount     decimal.Decimal
	Source     *Source
	CreatedAt  time.Time
}

// Register is a cash session. Movements is append-only and exclusively owned.
type Register struct {
	ID            uuid.UUID
	OpeningAmount decimal.Decimal
	Status        string
	OpenedAt      time.Time
	ClosedAt      *time.Time
	Movements     []Movement
}

// ClosingReport is the reconciliation produced when a session closes.
type ClosingReport struct {
	RegisterID     uuid.UUID
	SystemBalance  decimal.Decimal
	CountedAmount  decimal.Decimal
	Difference     decimal.Decimal
	Classification string
}

// Open starts a session with the given float. The opening movement is the
// first ledger entry.
func Open(openingAmount decimal.Decimal, openedAt time.Time) (*Register, error) {
	if openingAmount.IsNegative() {
		return nil, ErrNegativeOpening
	}
	r := &Register{
		ID:            uuid.New(),
		OpeningAmount: openingAmount,
		Status:        enum.RegisterStatusOpen,
		OpenedAt:      openedAt,
	}
	r.Movements = append(r.Movements, Movement{
		ID:         uuid.New(),
		RegisterID: r.ID,
		Type:       enum.CashMovementOpening,
		Amount:     openingAmount,
		CreatedAt:  openedAt,
	})
	return r, nil
}

// Record appends a sale/refund/addition/removal movement. Closed sessions
// reject everything; the synthetic closing movement goes through Close only.
func (r *Register) Record(typ string, amount decimal.Decimal, source *Source, at time.Time) (*Movement, error) {
	if r.Status == enum.RegisterStatusClosed {
		return nil, ErrRegisterClosed
	}
	switch typ {
	case enum.CashMovementSale, enum.CashMovementRefund,
		enum.CashMovementAddition, enum.CashMovementRemoval:
	case enum.CashMovementOpening, enum.CashMovementClosing:
		return nil, ErrReservedMovementType
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMovementType, typ)
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m := Movement{
		ID:         uuid.New(),
		RegisterID: r.ID,
		Type:       typ,
		Amount:     amount,
		Source:     source,
		CreatedAt:  at,
	}
	r.Movements = append(r.Movements, m)
	return &m, nil
}

// SystemBalance projects the expected drawer amount from the ledger:
// opening + sales + additions - refunds - removals. Opening and closing
// entries are bookkeeping markers and carry no sign here beyond the float.
func (r *Register) SystemBalance() decimal.Decimal {
	balance := r.OpeningAmount
	for _, m := range r.Movements {
		switch m.Type {
		case enum.CashMovementSale, enum.CashMovementAddition:
			balance = balance.Add(m.Amount)
		case enum.CashMovementRefund, enum.CashMovementRemoval:
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}

// Close reconciles the counted drawer amount against the system balance,
// appends the synthetic closing movement, and seals the session. Closing is
// terminal: there is no reopen.
func (r *Register) Close(countedAmount decimal.Decimal, closedAt time.Time) (*ClosingReport, error) {
	if r.Status == enum.RegisterStatusClosed {
		return nil, ErrRegisterClosed
	}
	if countedAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	system := r.SystemBalance()
	diff := countedAmount.Sub(system)

	r.Movements = append(r.Movements, Movement{
		ID:         uuid.New(),
		RegisterID: r.ID,
		Type:       enum.CashMovementClosing,
		Amount:     countedAmount,
		CreatedAt:  closedAt,
	})
	r.Status = enum.RegisterStatusClosed
	r.ClosedAt = &closedAt

	return &ClosingReport{
		RegisterID:     r.ID,
		SystemBalance:  system,
		CountedAmount:  countedAmount,
		Difference:     diff,
		Classification: classifyDeviation(diff),
	}, nil
}

func classifyDeviation(diff decimal.Decimal) string {
	switch {
	case diff.IsPositive():
		return DeviationOverage
	case diff.IsNegative():
		return DeviationShortage
	default:
		return DeviationBalanced
	}
}
