// Package matching implements the Engine: the sole owner of both sides
// of the book plus the id->Order index, and the single entry point
// (Process) a caller drives a stream of NewOrder/Cancel requests
// through.
//
// The engine is single-threaded and synchronous: Process runs to
// completion before the next request begins, and it is not reentrant.
// Callers that want concurrency must serialize requests into a single
// Engine themselves, or shard by instrument — this package does not
// provide a worker pool or queue of its own.
package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/lattice-markets/matchcore/internal/book"
	"github.com/lattice-markets/matchcore/internal/orders"
)

// Config configures an Engine. Both fields are optional: a zero Config
// gives a no-op logger and a private, unshared metrics registry. Logger
// is a pointer so a zero Config doesn't need a sentinel zerolog.Logger
// value (zerolog.Logger embeds a byte slice and so isn't comparable).
type Config struct {
	Logger   *zerolog.Logger
	Registry *prometheus.Registry
}

// Engine owns the Buy book, the Sell book, and the id->Order index. It
// is the sole mutator of every Order it has ever accepted.
type Engine struct {
	buy   *book.Book
	sell  *book.Book
	index map[orders.OrderID]*orders.Order

	logger  zerolog.Logger
	metrics *metrics
	reg     *prometheus.Registry
}

// New constructs an empty Engine.
func New(cfg Config) *Engine {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Engine{
		buy:     book.New(orders.SideBuy),
		sell:    book.New(orders.SideSell),
		index:   make(map[orders.OrderID]*orders.Order),
		logger:  logger,
		metrics: newMetrics(reg),
		reg:     reg,
	}
}

// Registry exposes the engine's private prometheus registry so a
// caller's own transport layer can scrape it; this package never serves
// metrics over the wire itself.
func (e *Engine) Registry() *prometheus.Registry {
	return e.reg
}

// Order looks up an order by id, including terminal ones: the index
// retains every order ever accepted.
func (e *Engine) Order(id orders.OrderID) (*orders.Order, bool) {
	o, ok := e.index[id]
	return o, ok
}

// BestBid returns the current best bid price, if any.
func (e *Engine) BestBid() (float64, bool) {
	return e.buy.BestPrice()
}

// BestAsk returns the current best ask price, if any.
func (e *Engine) BestAsk() (float64, bool) {
	return e.sell.BestPrice()
}

// Depth returns up to n resting price levels best-first for the given
// side (n<=0 means all), for diagnostics/CLI display — not a
// market-data feed.
func (e *Engine) Depth(side orders.Side, n int) []*book.Level {
	return e.bookFor(side).Depth(n)
}

// Process dispatches a request to its handler and returns a structured
// outcome. It never panics on a malformed request: every rejection path
// is reported through Response.
func (e *Engine) Process(req Request) Response {
	switch r := req.(type) {
	case NewOrder:
		return e.processNewOrder(r)
	case Cancel:
		return e.processCancel(r)
	default:
		return newError(KindPrecondition, "matching: unrecognized request variant").response()
	}
}

func (e *Engine) processNewOrder(r NewOrder) Response {
	if _, exists := e.index[r.ID]; exists {
		e.metrics.rejects.WithLabelValues(KindDuplicateID.String()).Inc()
		e.logger.Warn().Uint64("order_id", uint64(r.ID)).Msg("duplicate order id rejected")
		return newError(KindDuplicateID, "duplicated order_id").response()
	}
	if r.Qty <= 0 || r.Price <= 0 {
		e.metrics.rejects.WithLabelValues(KindPrecondition.String()).Inc()
		e.logger.Warn().Uint64("order_id", uint64(r.ID)).Float64("price", r.Price).Float64("qty", r.Qty).
			Msg("precondition violation: non-positive price or qty")
		return newError(KindPrecondition, "price and qty must be positive").response()
	}

	order := orders.New(r.ID, r.Side, r.Price, r.Qty, r.Timestamp)
	// The id index is append-only: the order is recorded before any
	// matching happens so a rejected later duplicate can never see a
	// half-applied state, and the index still reflects the order even if
	// matching itself never runs (e.g. an immediately-resting order).
	e.index[r.ID] = order

	opposite := e.bookFor(r.Side.Opposite())
	fills := opposite.Match(order)
	for _, f := range fills {
		e.metrics.fills.Inc()
		e.logger.Debug().
			Str("trade_id", f.TradeID).
			Uint64("maker_id", uint64(f.MakerID)).
			Uint64("taker_id", uint64(f.TakerID)).
			Float64("price", f.Price).
			Float64("qty", f.Qty).
			Msg("fill")
	}

	if !order.IsFilled() {
		own := e.bookFor(r.Side)
		if err := own.Add(order); err != nil {
			e.metrics.rejects.WithLabelValues(KindPrecondition.String()).Inc()
			e.logger.Warn().Err(err).Uint64("order_id", uint64(r.ID)).Msg("precondition violation resting new order")
			return newError(KindPrecondition, err.Error()).response()
		}
	}

	e.metrics.ordersProcessed.Inc()
	return Response{Code: CodeAccepted, Msg: "order accepted"}
}

func (e *Engine) processCancel(r Cancel) Response {
	order, exists := e.index[r.ID]
	if !exists {
		e.metrics.rejects.WithLabelValues(KindUnknownID.String()).Inc()
		e.logger.Warn().Uint64("order_id", uint64(r.ID)).Msg("cancel of unknown order id rejected")
		return newError(KindUnknownID, "cannot cancel order that does not exist").response()
	}
	if order.IsTerminal() {
		e.metrics.rejects.WithLabelValues(KindAlreadyDone.String()).Inc()
		e.logger.Warn().Uint64("order_id", uint64(r.ID)).Msg("cancel of terminal order rejected")
		return newError(KindAlreadyDone, "order is done, cannot cancel").response()
	}

	b := e.bookFor(order.Side)
	if err := b.Cancel(order); err != nil {
		e.metrics.rejects.WithLabelValues(KindPrecondition.String()).Inc()
		e.logger.Warn().Err(err).Uint64("order_id", uint64(r.ID)).Msg("precondition violation on cancel")
		return newError(KindPrecondition, err.Error()).response()
	}

	e.metrics.cancels.Inc()
	return Response{Code: CodeAccepted, Msg: "order accepted"}
}

func (e *Engine) bookFor(side orders.Side) *book.Book {
	if side == orders.SideBuy {
		return e.buy
	}
	return e.sell
}
