// Package boundary keeps the engine's ingress in its host-call shape:
// integer-coded enums in, caller-owned byte buffers out. The HTTP
// facade sits on top of this layer where it mirrors that call path.
package boundary

import (
	"errors"

	"vidar/internal/common"
	"vidar/internal/engine"
)

var (
	ErrInvalidOrderType = errors.New("invalid order type")
	ErrInvalidSide      = errors.New("invalid side")
)

// Wire encodings of the ingress enums.
const (
	OrderTypeLimit  = 0
	OrderTypeMarket = 1

	SideBuy  = 0
	SideSell = 1
)

// DecodeOrderType maps the wire integer onto the order type.
func DecodeOrderType(v int) (common.OrderType, error) {
	switch v {
	case OrderTypeLimit:
		return common.LimitOrder, nil
	case OrderTypeMarket:
		return common.MarketOrder, nil
	default:
		return 0, ErrInvalidOrderType
	}
}

// DecodeSide maps the wire integer onto the order side.
func DecodeSide(v int) (common.Side, error) {
	switch v {
	case SideBuy:
		return common.Buy, nil
	case SideSell:
		return common.Sell, nil
	default:
		return 0, ErrInvalidSide
	}
}

// Gateway exposes the four engine entry points with the narrow
// buffer-oriented contract: results are written into caller buffers,
// and a buffer too small for the full result yields 0 with the buffer
// left untouched.
type Gateway struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *Gateway {
	return &Gateway{eng: eng}
}

// AddOrder decodes the wire arguments, enters the engine and writes
// the new order id into idBuf. Returns the id length in bytes, or 0
// on an undecodable argument or a buffer too small for the id.
func (g *Gateway) AddOrder(user string, orderType, side int, price, quantity float64, idBuf []byte) int {
	typ, err := DecodeOrderType(orderType)
	if err != nil {
		return 0
	}
	sd, err := DecodeSide(side)
	if err != nil {
		return 0
	}

	id := g.eng.AddOrder(user, typ, sd, price, quantity)
	if len(id) > len(idBuf) {
		return 0
	}
	return copy(idBuf, id)
}

// GetTrades serializes the full trade log into buf and returns the
// byte length written, 0 when buf cannot hold the result.
func (g *Gateway) GetTrades(buf []byte) int {
	return renderInto(g.eng.Trades(), buf)
}

// GetUserTrades serializes the trades touching user into buf and
// returns the byte length written, 0 when buf cannot hold the result.
// An unknown user is not an error; the result is [].
func (g *Gateway) GetUserTrades(user string, buf []byte) int {
	return renderInto(g.eng.UserTrades(user), buf)
}

// ClearOrderBook drops all books, index entries and trades.
func (g *Gateway) ClearOrderBook() {
	g.eng.Clear()
}

func renderInto(trades []common.Trade, buf []byte) int {
	out, err := engine.RenderTrades(trades)
	if err != nil {
		return 0
	}
	if len(out) > len(buf) {
		return 0
	}
	return copy(buf, out)
}
