package engine

import (
	"encoding/json"

	"vidar/internal/common"
)

// RenderTrades serializes trades to the JSON array form served over
// the query surface. The empty set renders as [] rather than null.
func RenderTrades(trades []common.Trade) ([]byte, error) {
	if len(trades) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(trades)
}
