package engine

import (
	"fmt"

	"vidar/internal/host"
)

// idGenerator hands out order and trade ids: the host clock second in
// hex, a "trade" tag on trade ids only, and a strictly increasing
// counter per stream. Ids are unique within
// a run and opaque to every caller; nothing parses them back.
type idGenerator struct {
	clock    host.Clock
	orderSeq uint64
	tradeSeq uint64
}

func (g *idGenerator) nextOrderID() string {
	g.orderSeq++
	return fmt.Sprintf("%x-%d", g.clock.Now(), g.orderSeq)
}

func (g *idGenerator) nextTradeID() string {
	g.tradeSeq++
	return fmt.Sprintf("%x-trade-%d", g.clock.Now(), g.tradeSeq)
}

func (g *idGenerator) reset() {
	g.orderSeq = 0
	g.tradeSeq = 0
}
