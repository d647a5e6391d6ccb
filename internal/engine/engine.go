// Package engine is the continuous double-auction matching core. It
// owns the two priority books, the order index and the trade log, and
// is entered one request at a time; the mutex serializes the external
// entry points, the matching pass itself needs no locking.
package engine

import (
	"fmt"
	"math"
	"sync"

	"vidar/internal/common"
	"vidar/internal/host"
)

// TradeReporter receives every executed trade as it happens. Wired by
// the composition root; the engine works without one.
type TradeReporter interface {
	ReportTrade(trade common.Trade)
}

// Level is one aggregated price level of the depth view.
type Level struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Depth is the aggregate book view, best levels first on both sides.
type Depth struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

type Engine struct {
	mu      sync.Mutex
	clock   host.Clock
	sink    host.LogSink
	printer host.Printer
	ids     idGenerator

	bids   *sideBook
	asks   *sideBook
	orders map[string]common.Order
	trades []common.Trade
	seq    uint64

	reporter TradeReporter
}

func New(clock host.Clock, sink host.LogSink, printer host.Printer) *Engine {
	return &Engine{
		clock:   clock,
		sink:    sink,
		printer: printer,
		ids:     idGenerator{clock: clock},
		bids:    newSideBook(common.Buy),
		asks:    newSideBook(common.Sell),
		orders:  make(map[string]common.Order),
		trades:  make([]common.Trade, 0),
	}
}

func (e *Engine) SetReporter(r TradeReporter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reporter = r
}

// AddOrder constructs the order, runs a matching pass against the
// opposite book, records the result in the index and returns the order
// id. Argument validation is the front-end's job; the engine trusts
// its inputs.
func (e *Engine) AddOrder(user string, orderType common.OrderType, side common.Side, price, quantity float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	order := common.Order{
		ID:        e.ids.nextOrderID(),
		User:      user,
		OrderType: orderType,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Status:    common.Open,
		Timestamp: e.clock.Now(),
	}

	e.sink.Log(fmt.Sprintf("new order: %s, type: %v, side: %v, price: %.2f, quantity: %.2f",
		order.ID, order.OrderType, order.Side, order.Price, order.Quantity))

	if orderType == common.MarketOrder {
		e.matchMarket(&order)
	} else {
		e.matchLimit(&order)
	}

	e.orders[order.ID] = order
	return order.ID
}

// matchLimit sweeps the opposite book while prices cross, then rests
// whatever is left on the order's own side.
func (e *Engine) matchLimit(order *common.Order) {
	e.sweep(order, true)

	if order.Remaining <= 0 {
		order.Remaining = 0
		order.Status = common.Filled
		return
	}
	if order.Remaining < order.Quantity {
		order.Status = common.PartiallyFilled
	}
	e.book(order.Side).insert(&resting{order: *order, seq: e.nextSeq()})
}

// matchMarket sweeps the opposite book with no price constraint. A
// residual means the book ran dry; it has no price to rest at, so it
// stays out of both books and only the index records it.
func (e *Engine) matchMarket(order *common.Order) {
	e.sweep(order, false)

	switch {
	case order.Remaining <= 0:
		order.Remaining = 0
		order.Status = common.Filled
	case order.Remaining < order.Quantity:
		order.Status = common.PartiallyFilled
	}
}

// sweep consumes the opposite book best-first, emitting one trade per
// maker at the maker's limit price. With limitPriced set, matching
// stops at the first maker that no longer crosses the order's price.
func (e *Engine) sweep(order *common.Order, limitPriced bool) {
	opposite := e.book(order.Side.Opposite())

	for order.Remaining > 0 {
		best, ok := opposite.peekBest()
		if !ok {
			break
		}
		if limitPriced && !crosses(order, &best.order) {
			break
		}
		opposite.popBest()
		maker := best

		fill := math.Min(order.Remaining, maker.order.Remaining)
		trade := common.Trade{
			ID:        e.ids.nextTradeID(),
			Maker:     maker.order.User,
			Taker:     order.User,
			TakerSide: order.Side,
			Price:     maker.order.Price,
			Quantity:  fill,
			Timestamp: e.clock.Now(),
		}

		order.Remaining -= fill
		maker.order.Remaining -= fill

		if maker.order.Remaining <= 0 {
			maker.order.Remaining = 0
			maker.order.Status = common.Filled
		} else {
			maker.order.Status = common.PartiallyFilled
			// Re-insert under the original timestamp and sequence so
			// the maker keeps its place at the level.
			opposite.insert(maker)
		}
		e.orders[maker.order.ID] = maker.order

		e.trades = append(e.trades, trade)
		// Raw trace print, forwarded to stdout by the host.
		e.printer.Print(fmt.Sprintf("trade executed: %s, price: %.2f, quantity: %.2f\n",
			trade.ID, trade.Price, trade.Quantity))
		if e.reporter != nil {
			e.reporter.ReportTrade(trade)
		}
	}
}

// crosses is the price admissibility test between an aggressor and the
// opposite best: buy.price >= sell.price.
func crosses(taker, maker *common.Order) bool {
	if taker.Side == common.Buy {
		return maker.Price <= taker.Price
	}
	return maker.Price >= taker.Price
}

func (e *Engine) book(side common.Side) *sideBook {
	if side == common.Buy {
		return e.bids
	}
	return e.asks
}

func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Trades returns the full trade log in execution order.
func (e *Engine) Trades() []common.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]common.Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

// UserTrades returns the trades the user participated in, as maker or
// taker, in execution order. An unknown user yields an empty list.
func (e *Engine) UserTrades(user string) []common.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]common.Trade, 0)
	for _, t := range e.trades {
		if t.Maker == user || t.Taker == user {
			out = append(out, t)
		}
	}
	return out
}

// Order looks up the latest recorded state of an order. Index entries
// are never removed, so terminal states stay visible.
func (e *Engine) Order(id string) (common.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[id]
	return order, ok
}

// Depth aggregates the live book into per-price levels, best first.
func (e *Engine) Depth() Depth {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Depth{
		Bids: levelize(e.bids),
		Asks: levelize(e.asks),
	}
}

func levelize(b *sideBook) []Level {
	out := make([]Level, 0)
	b.scan(func(r *resting) bool {
		if !r.order.Status.Active() {
			return true
		}
		if n := len(out); n > 0 && out[n-1].Price == r.order.Price {
			out[n-1].Quantity += r.order.Remaining
		} else {
			out = append(out, Level{Price: r.order.Price, Quantity: r.order.Remaining})
		}
		return true
	})
	return out
}

// Clear drops both books, the order index and the trade log, and
// resets the id counters.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bids = newSideBook(common.Buy)
	e.asks = newSideBook(common.Sell)
	e.orders = make(map[string]common.Order)
	e.trades = make([]common.Trade, 0)
	e.seq = 0
	e.ids.reset()

	e.sink.Log("order book cleared")
}
