package book

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/lattice-markets/matchcore/internal/orders"
)

// Book is one side of the market: an ordered map from price to Level,
// iterated best-first for that side (descending for Buy, ascending for
// Sell). The ordering is carried entirely by the btree comparator, so
// Scan (which walks in the tree's natural order) is always a best-first
// sweep regardless of side.
type Book struct {
	side   orders.Side
	levels *btree.BTreeG[*Level]
}

// New creates an empty Book for the given side.
func New(side orders.Side) *Book {
	var less func(a, b *Level) bool
	if side == orders.SideBuy {
		// Best bid is the highest price: order the tree so the highest
		// price sorts first.
		less = func(a, b *Level) bool { return a.Price > b.Price }
	} else {
		// Best ask is the lowest price: natural ascending order.
		less = func(a, b *Level) bool { return a.Price < b.Price }
	}
	return &Book{side: side, levels: btree.NewBTreeG(less)}
}

// Side returns which side of the market this Book represents.
func (b *Book) Side() orders.Side {
	return b.side
}

// IsEmpty reports whether the book holds no resting orders at all.
func (b *Book) IsEmpty() bool {
	return b.levels.Len() == 0
}

// BestPrice returns the best (most aggressive) resting price for this
// side, or false if the book is empty.
func (b *Book) BestPrice() (float64, bool) {
	lvl, ok := b.levels.Min()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// Add rests a non-terminal order in this Book, creating its price Level
// if this is the first order at that price.
func (b *Book) Add(o *orders.Order) error {
	if o.Side != b.side {
		return fmt.Errorf("book: order %d side %s does not belong in the %s book", o.ID, o.Side, b.side)
	}
	if o.IsTerminal() {
		return fmt.Errorf("book: order %d is terminal, cannot rest", o.ID)
	}
	if o.LeavesQty <= 0 {
		return fmt.Errorf("book: order %d has no leaves quantity to rest", o.ID)
	}

	lvl, ok := b.levels.Get(&Level{Price: o.Price})
	if !ok {
		lvl = NewLevel(o.Price, b.side)
		b.levels.Set(lvl)
	}
	return lvl.Add(o)
}

// Match sweeps this Book best-first against taker, an incoming order
// from the opposite side. It stops as soon as a level is no longer marketable
// (every worse level is guaranteed non-marketable too) or the taker
// fills. Emptied levels are deleted only after the walk completes, so
// the sweep never invalidates its own iteration.
func (b *Book) Match(taker *orders.Order) []Fill {
	var allFills []Fill
	var drained []*Level

	b.levels.Scan(func(lvl *Level) bool {
		if !lvl.CanMatch(taker) {
			return false
		}

		outcome, fills := lvl.Match(taker)
		allFills = append(allFills, fills...)

		if lvl.IsEmpty() {
			drained = append(drained, lvl)
		}
		return outcome == Continuation
	})

	for _, lvl := range drained {
		b.levels.Delete(lvl)
	}
	return allFills
}

// Cancel removes a resting order from its price Level, deleting the
// Level too if it becomes empty. It is a Precondition failure for the
// order's price to have no Level in this Book at all — that signals the
// id index and the book have drifted out of sync.
func (b *Book) Cancel(o *orders.Order) error {
	lvl, ok := b.levels.Get(&Level{Price: o.Price})
	if !ok {
		return fmt.Errorf("book: no level at price %v for order %d", o.Price, o.ID)
	}
	if err := lvl.Cancel(o); err != nil {
		return err
	}
	if lvl.IsEmpty() {
		b.levels.Delete(lvl)
	}
	return nil
}

// Depth returns up to n price levels best-first (n<=0 means all),
// intended for diagnostics/CLI display, not a market-data feed.
func (b *Book) Depth(n int) []*Level {
	out := make([]*Level, 0)
	b.levels.Scan(func(lvl *Level) bool {
		out = append(out, lvl)
		return n <= 0 || len(out) < n
	})
	return out
}
