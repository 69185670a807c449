package order

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the composition / pricing / assembly pipeline.
// Group and option scoped failures are wrapped in GroupError / SelectionError
// so callers can address the failing control while still matching with errors.Is.
var (
	ErrGroupBelowMinimum = errors.New("selection below group minimum")
	ErrGroupExceedsMax   = errors.New("selection exceeds group maximum")
	ErrUnknownOption     = errors.New("option does not belong to variant")
	ErrUnknownComboGroup = errors.New("combo option group does not belong to variant")
	ErrUnknownComboItem  = errors.New("combo option item does not belong to group")
	ErrComboNotSupported = errors.New("variant is not a combo")

	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrMissingVariant  = errors.New("variant is required")
	ErrVariantNotFound = errors.New("variant not found")
)

// GroupError reports a cardinality violation on a specific group.
// Min/Max carry the violated bound, Sum the selected quantity total.
type GroupError struct {
	GroupID uuid.UUID
	Sum     int32
	Min     int32
	Max     int32
	err     error
}

func (e *GroupError) Error() string {
	if errors.Is(e.err, ErrGroupBelowMinimum) {
		return fmt.Sprintf("group %s: selected %d, minimum %d", e.GroupID, e.Sum, e.Min)
	}
	return fmt.Sprintf("group %s: selected %d, maximum %d", e.GroupID, e.Sum, e.Max)
}

func (e *GroupError) Unwrap() error { return e.err }

// SelectionError reports a selection line referencing an id that does not
// resolve against the target variant.
type SelectionError struct {
	ID  uuid.UUID
	err error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.err)
}

func (e *SelectionError) Unwrap() error { return e.err }

// InsufficientStockError is the assembler's advisory stock check failure.
// The storage layer re-validates at commit time; see CommitOrderItem.
type InsufficientStockError struct {
	VariantID uuid.UUID
	Available string
	Requested string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("variant %s: insufficient stock (have %s, want %s)",
		e.VariantID, e.Available, e.Requested)
}
