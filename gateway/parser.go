package gateway

import (
	"encoding/json"
	"fmt"

	"auto-trader-go/market"
)

// Envelope 交易所信息流的外层包装：type 区分消息种类。
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type bookMessage struct {
	Instrument int      `json:"instrument"`
	Sequence   uint64   `json:"sequence"`
	AskPrices  []int64  `json:"ask_prices"`
	AskVolumes []int64  `json:"ask_volumes"`
	BidPrices  []int64  `json:"bid_prices"`
	BidVolumes []int64  `json:"bid_volumes"`
}

type fillMessage struct {
	OrderID int64 `json:"order_id"`
	Price   int64 `json:"price"`
	Volume  int64 `json:"volume"`
}

type statusMessage struct {
	OrderID   int64 `json:"order_id"`
	Filled    int64 `json:"fill_volume"`
	Remaining int64 `json:"remaining_volume"`
	Fees      int64 `json:"fees"`
}

type errorMessage struct {
	OrderID int64  `json:"order_id"`
	Message string `json:"message"`
}

func (m bookMessage) snapshot() market.Snapshot {
	return market.Snapshot{
		Instrument: market.Instrument(m.Instrument),
		Sequence:   m.Sequence,
		AskPrices:  m.AskPrices,
		AskVolumes: m.AskVolumes,
		BidPrices:  m.BidPrices,
		BidVolumes: m.BidVolumes,
	}
}

// ParseEvent 把一条原始消息解码为入站事件。
func ParseEvent(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Type {
	case "order_book_update":
		var m bookMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode order_book_update: %w", err)
		}
		return OrderBookUpdate{Snapshot: m.snapshot()}, nil
	case "trade_ticks":
		var m bookMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode trade_ticks: %w", err)
		}
		return TradeTicks{Snapshot: m.snapshot()}, nil
	case "order_filled":
		var m fillMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode order_filled: %w", err)
		}
		return OrderFilled(m), nil
	case "hedge_filled":
		var m fillMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode hedge_filled: %w", err)
		}
		return HedgeFilled(m), nil
	case "order_status":
		var m statusMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode order_status: %w", err)
		}
		return OrderStatus(m), nil
	case "error":
		var m errorMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("decode error: %w", err)
		}
		return ErrorEvent(m), nil
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}
