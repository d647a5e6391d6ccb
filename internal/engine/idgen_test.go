package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stuckClock struct{ now int64 }

func (c *stuckClock) Now() int64 { return c.now }

func TestIDGenerator_UniqueWithinSameSecond(t *testing.T) {
	gen := idGenerator{clock: &stuckClock{now: 1700000000}}

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := gen.nextOrderID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDGenerator_OrderAndTradeStreamsAreDisjoint(t *testing.T) {
	gen := idGenerator{clock: &stuckClock{now: 1700000000}}

	assert.Equal(t, "6553f100-1", gen.nextOrderID())
	assert.Equal(t, "6553f100-trade-1", gen.nextTradeID())
	assert.Equal(t, "6553f100-2", gen.nextOrderID())
	assert.Equal(t, "6553f100-trade-2", gen.nextTradeID())
}

func TestIDGenerator_Reset(t *testing.T) {
	gen := idGenerator{clock: &stuckClock{now: 1700000000}}

	gen.nextOrderID()
	gen.nextTradeID()
	gen.reset()

	assert.Equal(t, "6553f100-1", gen.nextOrderID())
	assert.Equal(t, "6553f100-trade-1", gen.nextTradeID())
}
