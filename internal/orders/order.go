// Package orders defines the core order value entity and its lifecycle.
//
// Key Design Decisions:
//
// 1. Floating-point price/quantity: prices and quantities are float64.
//    The fill arithmetic (cum_notional, avg_fill_price) needs a value
//    that divides cleanly into a running average, and the residual
//    tolerance epsilon below exists specifically to absorb the rounding
//    this choice implies. A fixed-point/decimal representation would
//    make that tolerance meaningless, so it is not used here (see
//    DESIGN.md).
//
// 2. OrderID is caller-supplied and opaque: the engine never mints order
//    ids, it only enforces their uniqueness.
package orders

import "fmt"

// OrderID is an opaque, caller-supplied, equality-comparable identifier.
type OrderID uint64

// Side is which side of the market an order or price level sits on.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// sign is the uniform side_sign used by Level.CanMatch: Buy=+1, Sell=-1.
func (s Side) sign() float64 {
	if s == SideBuy {
		return 1
	}
	return -1
}

// OrderStatus is the lifecycle state of an Order.
type OrderStatus int

const (
	StatusOpen OrderStatus = iota
	StatusPartialFill
	StatusFilled
	StatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusPartialFill:
		return "PARTIAL_FILL"
	case StatusFilled:
		return "FILLED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Epsilon is the residual tolerance used to snap an almost-zero leaves
// quantity to exactly zero after a fill.
const Epsilon = 1e-6

// Order is a resting or incoming limit order.
//
// While an Order sits in a Level, its Status is one of StatusOpen or
// StatusPartialFill and LeavesQty > 0.
type Order struct {
	ID        OrderID
	Side      Side
	Price     float64
	OrigQty   float64
	LeavesQty float64
	Status    OrderStatus

	// CumNotional is the running sum of fill_qty * fill_price.
	CumNotional float64
	// AvgFillPrice is CumNotional / (OrigQty - LeavesQty), recomputed
	// after every fill. It is 0 until the first fill.
	AvgFillPrice float64

	// Timestamp is caller-assigned (nanoseconds or any caller-defined
	// unit); the engine never stamps an order itself. Zero means unset.
	Timestamp int64
}

// New constructs an Order in its initial Open state.
func New(id OrderID, side Side, price, qty float64, timestamp int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		OrigQty:   qty,
		LeavesQty: qty,
		Status:    StatusOpen,
		Timestamp: timestamp,
	}
}

// IsFilled reports whether the order has no quantity left and is Filled.
func (o *Order) IsFilled() bool {
	return o.Status == StatusFilled
}

// IsTerminal reports whether the order can never be mutated again.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusFilled || o.Status == StatusCancelled
}

// IsActive reports whether the order may still rest in / be matched
// against a Level.
func (o *Order) IsActive() bool {
	return o.Status == StatusOpen || o.Status == StatusPartialFill
}

// Fill applies a single execution to the order, updating its running
// average fill price and leaves quantity.
//
// Precondition: qty > 0, qty <= LeavesQty, and the order is not terminal.
// Violating this precondition indicates a bug in the matching loop, not
// a user-facing error, so it panics rather than returning an error —
// there is no sensible caller-facing recovery from a corrupted fill.
func (o *Order) Fill(qty, price float64) {
	if qty <= 0 || qty > o.LeavesQty || o.IsTerminal() {
		panic(fmt.Sprintf("orders: invalid fill qty=%v leaves=%v status=%v", qty, o.LeavesQty, o.Status))
	}

	o.CumNotional += qty * price
	o.LeavesQty -= qty
	filledQty := o.OrigQty - o.LeavesQty
	if filledQty > 0 {
		o.AvgFillPrice = o.CumNotional / filledQty
	}

	if o.LeavesQty < Epsilon && o.LeavesQty > -Epsilon {
		o.LeavesQty = 0
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartialFill
	}
}

// Cancel marks the order cancelled, zeroing its remaining quantity.
func (o *Order) Cancel() {
	o.Status = StatusCancelled
	o.LeavesQty = 0
}

// Marketable reports whether this order, as a taker against a level on
// the opposite side priced at levelPrice, can trade: a Buy is
// marketable at levelPrice or above, a Sell at levelPrice or below.
// Uniform form: side_sign*(taker.price-level.price) >= 0. Only the
// taker's own sign is needed here — the level's sign is always the
// negation of the taker's, since a taker only ever meets a level on the
// opposite side, so folding it in would add nothing (see DESIGN.md).
func (o *Order) Marketable(levelPrice float64) bool {
	return o.Side.sign()*(o.Price-levelPrice) >= 0
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{ID:%d, %s %.4f@%.4f, Leaves:%.4f, Status:%s}",
		o.ID, o.Side, o.OrigQty, o.Price, o.LeavesQty, o.Status)
}
