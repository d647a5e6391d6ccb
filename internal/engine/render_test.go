package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidar/internal/common"
)

func TestRenderTrades_Empty(t *testing.T) {
	out, err := RenderTrades(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = RenderTrades([]common.Trade{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestRenderTrades_WireShape(t *testing.T) {
	out, err := RenderTrades([]common.Trade{{
		ID:        "6553f100-trade-1",
		Maker:     "alice",
		Taker:     "bob",
		TakerSide: common.Buy,
		Price:     100.0,
		Quantity:  1.5,
		Timestamp: 1700000000,
	}})
	require.NoError(t, err)

	want := `[{"id":"6553f100-trade-1","maker":"alice","taker":"bob",` +
		`"taker_side":"buy","price":100,"quantity":1.5,"timestamp":1700000000}]`
	assert.Equal(t, want, string(out))
}

func TestRenderTrades_SellSideAndEscaping(t *testing.T) {
	out, err := RenderTrades([]common.Trade{{
		ID:        "6553f100-trade-1",
		Maker:     `ali"ce`,
		Taker:     "bob",
		TakerSide: common.Sell,
		Price:     99.5,
		Quantity:  2,
		Timestamp: 1700000001,
	}})
	require.NoError(t, err)

	// Output must stay syntactically valid JSON whatever the user
	// strings contain.
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, `ali"ce`, decoded[0]["maker"])
	assert.Equal(t, "sell", decoded[0]["taker_side"])
}

func TestRenderTrades_PreservesLogOrder(t *testing.T) {
	trades := []common.Trade{
		{ID: "t1", TakerSide: common.Buy},
		{ID: "t2", TakerSide: common.Sell},
		{ID: "t3", TakerSide: common.Buy},
	}
	out, err := RenderTrades(trades)
	require.NoError(t, err)

	var decoded []common.Trade
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 3)
	for i, tr := range decoded {
		assert.Equal(t, trades[i].ID, tr.ID)
	}
}
