package common

import "fmt"

// Trade records an execution between a resting maker and an incoming
// taker. The field order matches the wire layout of the trade feed.
type Trade struct {
	ID        string  `json:"id"`
	Maker     string  `json:"maker"`
	Taker     string  `json:"taker"`
	TakerSide Side    `json:"taker_side"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`ID:        %s
Maker:     %s
Taker:     %s
TakerSide: %v
Price:     %f
Quantity:  %f
Timestamp: %d`,
		t.ID,
		t.Maker,
		t.Taker,
		t.TakerSide,
		t.Price,
		t.Quantity,
		t.Timestamp,
	)
}
