package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	RegisterStatusOpen   = "OPEN"
	RegisterStatusClosed = "CLOSED"
)

const (
	StockMovementIn  = "IN"
	StockMovementOut = "OUT"
)

const (
	CashMovementOpening  = "OPENING"
	CashMovementClosing  = "CLOSING"
	CashMovementSale     = "SALE"
	CashMovementRefund   = "REFUND"
	CashMovementAddition = "ADDITION"
	CashMovementRemoval  = "REMOVAL"
)

// ── Group B: Configurable labels (no DB constraint) ──

// Stock movement subtypes. IN pairs with PURCHASE/ADJUSTMENT/RETURN,
// OUT pairs with SALE/WASTE/ADJUSTMENT/TRANSFER.
const (
	StockSubtypePurchase   = "PURCHASE"
	StockSubtypeSale       = "SALE"
	StockSubtypeWaste      = "WASTE"
	StockSubtypeAdjustment = "ADJUSTMENT"
	StockSubtypeReturn     = "RETURN"
	StockSubtypeTransfer   = "TRANSFER"
)

// Source reference kinds for polymorphic ledger entries
// (tagged kind + id instead of dynamic type lookup).
const (
	SourceKindOrder   = "ORDER"
	SourceKindPayment = "PAYMENT"
	SourceKindManual  = "MANUAL"
)
