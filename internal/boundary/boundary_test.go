package boundary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidar/internal/common"
	"vidar/internal/engine"
)

type fakeClock struct{ now int64 }

func (c *fakeClock) Now() int64 { return c.now }

type nopSink struct{}

func (nopSink) Log(string) {}

type nopPrinter struct{}

func (nopPrinter) Print(string) {}

func createTestGateway() *Gateway {
	return New(engine.New(&fakeClock{now: 1700000000}, nopSink{}, nopPrinter{}))
}

func TestDecodeOrderType(t *testing.T) {
	typ, err := DecodeOrderType(OrderTypeLimit)
	require.NoError(t, err)
	assert.Equal(t, common.LimitOrder, typ)

	typ, err = DecodeOrderType(OrderTypeMarket)
	require.NoError(t, err)
	assert.Equal(t, common.MarketOrder, typ)

	_, err = DecodeOrderType(7)
	assert.ErrorIs(t, err, ErrInvalidOrderType)
}

func TestDecodeSide(t *testing.T) {
	side, err := DecodeSide(SideBuy)
	require.NoError(t, err)
	assert.Equal(t, common.Buy, side)

	side, err = DecodeSide(SideSell)
	require.NoError(t, err)
	assert.Equal(t, common.Sell, side)

	_, err = DecodeSide(-1)
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestAddOrder_WritesIDIntoBuffer(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	n := gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 2.0, idBuf)
	require.Positive(t, n)
	assert.Equal(t, "6553f100-1", string(idBuf[:n]))
}

func TestAddOrder_RejectsBadEnums(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	assert.Zero(t, gw.AddOrder("alice", 9, SideSell, 100.0, 2.0, idBuf))
	assert.Zero(t, gw.AddOrder("alice", OrderTypeLimit, 9, 100.0, 2.0, idBuf))
}

func TestAddOrder_BufferTooSmallForID(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 4)
	assert.Zero(t, gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 2.0, idBuf))
}

func TestGetTrades_EmptyLogRendersBrackets(t *testing.T) {
	gw := createTestGateway()

	buf := make([]byte, 128)
	n := gw.GetTrades(buf)
	assert.Equal(t, "[]", string(buf[:n]))
}

func TestGetTrades_BufferTooSmallLeavesBufferUntouched(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 1.0, idBuf)
	gw.AddOrder("bob", OrderTypeLimit, SideBuy, 100.0, 1.0, idBuf)

	small := bytes.Repeat([]byte{0xAA}, 8)
	n := gw.GetTrades(small)
	assert.Zero(t, n)
	assert.Equal(t, bytes.Repeat([]byte{0xAA}, 8), small)
}

func TestGetTrades_ExactFit(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 1.0, idBuf)
	gw.AddOrder("bob", OrderTypeLimit, SideBuy, 100.0, 1.0, idBuf)

	probe := make([]byte, 4096)
	want := gw.GetTrades(probe)
	require.Positive(t, want)

	exact := make([]byte, want)
	n := gw.GetTrades(exact)
	assert.Equal(t, want, n)
	assert.Equal(t, probe[:want], exact)
}

func TestGetUserTrades_FiltersAndDefaultsToBrackets(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 1.0, idBuf)
	gw.AddOrder("bob", OrderTypeLimit, SideBuy, 100.0, 1.0, idBuf)

	buf := make([]byte, 4096)
	n := gw.GetUserTrades("alice", buf)
	require.Positive(t, n)
	assert.Contains(t, string(buf[:n]), `"maker":"alice"`)

	n = gw.GetUserTrades("zoe", buf)
	assert.Equal(t, "[]", string(buf[:n]))
}

func TestClearOrderBook(t *testing.T) {
	gw := createTestGateway()

	idBuf := make([]byte, 64)
	gw.AddOrder("alice", OrderTypeLimit, SideSell, 100.0, 1.0, idBuf)
	gw.AddOrder("bob", OrderTypeLimit, SideBuy, 100.0, 1.0, idBuf)

	gw.ClearOrderBook()

	buf := make([]byte, 128)
	n := gw.GetTrades(buf)
	assert.Equal(t, "[]", string(buf[:n]))
}
