package engine

import (
	"github.com/tidwall/btree"

	"vidar/internal/common"
)

// resting wraps an order held in a book together with the insertion
// sequence that fixes its place among co-timestamped peers. The clock
// is second-resolution, so bursts of orders share a timestamp; the
// sequence keeps their match order stable.
type resting struct {
	order common.Order
	seq   uint64
}

// sideBook is one side of the book, resting orders held in match
// priority. Both sides read their best order with Min: the comparator
// encodes the direction, greatest price first for bids and least first
// for asks.
type sideBook struct {
	queue *btree.BTreeG[*resting]
}

func newSideBook(side common.Side) *sideBook {
	var less func(a, b *resting) bool
	if side == common.Buy {
		less = func(a, b *resting) bool {
			if a.order.Price != b.order.Price {
				return a.order.Price > b.order.Price
			}
			if a.order.Timestamp != b.order.Timestamp {
				return a.order.Timestamp < b.order.Timestamp
			}
			return a.seq < b.seq
		}
	} else {
		less = func(a, b *resting) bool {
			if a.order.Price != b.order.Price {
				return a.order.Price < b.order.Price
			}
			if a.order.Timestamp != b.order.Timestamp {
				return a.order.Timestamp < b.order.Timestamp
			}
			return a.seq < b.seq
		}
	}
	return &sideBook{queue: btree.NewBTreeG(less)}
}

func (b *sideBook) insert(r *resting) {
	b.queue.Set(r)
}

// peekBest returns the highest priority live order without removing
// it. Status transitions can leave stale copies at the top; those are
// dropped on the way.
func (b *sideBook) peekBest() (*resting, bool) {
	for {
		top, ok := b.queue.Min()
		if !ok {
			return nil, false
		}
		if top.order.Status.Active() {
			return top, true
		}
		b.queue.PopMin()
	}
}

// popBest removes and returns the highest priority live order.
func (b *sideBook) popBest() (*resting, bool) {
	for {
		top, ok := b.queue.PopMin()
		if !ok {
			return nil, false
		}
		if top.order.Status.Active() {
			return top, true
		}
	}
}

func (b *sideBook) len() int {
	return b.queue.Len()
}

// scan visits every entry in priority order until visit returns false.
func (b *sideBook) scan(visit func(*resting) bool) {
	b.queue.Scan(visit)
}
