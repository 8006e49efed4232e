// Package book implements the two-sided price ladder the matching engine
// sweeps: a Level is the FIFO queue of resting orders at one price on one
// side, a Book is the ordered map of Level by price for one side of the
// market.
package book

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lattice-markets/matchcore/internal/orders"
)

// MatchOutcome is the result of sweeping a taker against a Level's queue.
type MatchOutcome int

const (
	// Continuation means the level's queue emptied before the taker filled.
	Continuation MatchOutcome = iota
	// Complete means the taker reached zero leaves quantity.
	Complete
)

// Fill is a single execution produced while matching a taker against a
// resting maker. Trade price is always the maker's (the level's) price.
type Fill struct {
	TradeID string
	MakerID orders.OrderID
	TakerID orders.OrderID
	Side    orders.Side // the taker's side
	Price   float64
	Qty     float64
}

// levelNode is one link in a Level's doubly-linked FIFO queue. A
// doubly-linked list gives O(1) removal from the middle of the queue,
// which Level.Cancel needs for an order that isn't at the head.
type levelNode struct {
	order      *orders.Order
	prev, next *levelNode
}

// Level is the FIFO queue of resting, non-terminal orders sharing one
// (price, side). Every order in a Level has that Level's side and price.
type Level struct {
	Price float64
	Side  orders.Side

	head, tail *levelNode
	count      int
}

// NewLevel creates an empty level at the given price and side.
func NewLevel(price float64, side orders.Side) *Level {
	return &Level{Price: price, Side: side}
}

// IsEmpty reports whether the level has no resting orders; a Book must
// never retain an empty Level.
func (l *Level) IsEmpty() bool {
	return l.head == nil
}

// Count returns the number of orders resting at this level.
func (l *Level) Count() int {
	return l.count
}

// Add appends a non-terminal order to the tail of the queue, giving it
// lowest time priority among this level's orders.
func (l *Level) Add(o *orders.Order) error {
	if o.Price != l.Price {
		return fmt.Errorf("book: order %d price %v does not match level price %v", o.ID, o.Price, l.Price)
	}
	if o.Side != l.Side {
		return fmt.Errorf("book: order %d side %s does not match level side %s", o.ID, o.Side, l.Side)
	}

	node := &levelNode{order: o}
	if l.tail == nil {
		l.head, l.tail = node, node
	} else {
		node.prev = l.tail
		l.tail.next = node
		l.tail = node
	}
	l.count++
	return nil
}

// CanMatch reports whether taker (on the opposite side) is marketable
// against this rung.
func (l *Level) CanMatch(taker *orders.Order) bool {
	return taker.Marketable(l.Price)
}

// Match repeatedly crosses the taker against the head-of-queue maker,
// trading min(taker.LeavesQty, maker.LeavesQty) at the level's price,
// until the taker fills (Complete) or the queue empties (Continuation).
// A maker that only partially fills keeps its place at the head.
func (l *Level) Match(taker *orders.Order) (MatchOutcome, []Fill) {
	var fills []Fill

	for l.head != nil && !taker.IsFilled() {
		maker := l.head.order
		qty := min(taker.LeavesQty, maker.LeavesQty)
		price := l.Price

		maker.Fill(qty, price)
		taker.Fill(qty, price)

		fills = append(fills, Fill{
			TradeID: uuid.New().String(),
			MakerID: maker.ID,
			TakerID: taker.ID,
			Side:    taker.Side,
			Price:   price,
			Qty:     qty,
		})

		if maker.IsFilled() {
			l.popFront()
		}
	}

	if taker.IsFilled() {
		return Complete, fills
	}
	return Continuation, fills
}

// popFront unlinks the head node after its order has been fully filled.
func (l *Level) popFront() {
	node := l.head
	l.head = node.next
	if l.head != nil {
		l.head.prev = nil
	} else {
		l.tail = nil
	}
	node.next = nil
	l.count--
}

// Cancel scans for a specific resting order, unlinks it from the queue
// in O(1) once found, marks it Cancelled, and zeroes its leaves
// quantity. It fails if the order is not actually queued at this level.
func (l *Level) Cancel(o *orders.Order) error {
	for n := l.head; n != nil; n = n.next {
		if n.order.ID != o.ID {
			continue
		}
		if n.prev != nil {
			n.prev.next = n.next
		} else {
			l.head = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		} else {
			l.tail = n.prev
		}
		n.prev, n.next = nil, nil
		l.count--
		o.Cancel()
		return nil
	}
	return fmt.Errorf("book: order %d not found at level %v", o.ID, l.Price)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
