package gateway

import "auto-trader-go/market"

// 连接层投递进来的事件集合。事件按到达顺序逐个交付，
// 同一订单号的事件顺序由交易所保证，核心不做乱序重排。

// EventKind 事件类别。
type EventKind int

const (
	KindOrderBookUpdate EventKind = iota
	KindTradeTicks
	KindOrderFilled
	KindHedgeFilled
	KindOrderStatus
	KindError
)

// String 返回事件类别名，用于日志与指标标签。
func (k EventKind) String() string {
	switch k {
	case KindOrderBookUpdate:
		return "order_book_update"
	case KindTradeTicks:
		return "trade_ticks"
	case KindOrderFilled:
		return "order_filled"
	case KindHedgeFilled:
		return "hedge_filled"
	case KindOrderStatus:
		return "order_status"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Event 入站事件的公共接口。
type Event interface {
	Kind() EventKind
}

// OrderBookUpdate 盘口快照事件，阶梯至少 3 档。
type OrderBookUpdate struct {
	market.Snapshot
}

func (OrderBookUpdate) Kind() EventKind { return KindOrderBookUpdate }

// TradeTicks 成交明细事件，基线设计下仅作记录。
type TradeTicks struct {
	market.Snapshot
}

func (TradeTicks) Kind() EventKind { return KindTradeTicks }

// OrderFilled 做市单成交回报。Price 为均价，不做 tick 对齐。
type OrderFilled struct {
	OrderID int64
	Price   int64
	Volume  int64
}

func (OrderFilled) Kind() EventKind { return KindOrderFilled }

// HedgeFilled 对冲单成交回报。
type HedgeFilled struct {
	OrderID int64
	Price   int64
	Volume  int64
}

func (HedgeFilled) Kind() EventKind { return KindHedgeFilled }

// OrderStatus 订单状态回报；Remaining 为 0 表示订单退场。
type OrderStatus struct {
	OrderID   int64
	Filled    int64
	Remaining int64
	Fees      int64
}

func (OrderStatus) Kind() EventKind { return KindOrderStatus }

// ErrorEvent 错误回报；OrderID 为 0 表示与具体订单无关。
type ErrorEvent struct {
	OrderID int64
	Message string
}

func (ErrorEvent) Kind() EventKind { return KindError }

// MarketParticipant 核心对连接层暴露的唯一接口：
// 一组固定的事件处理方法，由调度器按序调用。
// 每个处理方法必须运行到底，不得阻塞或挂起。
type MarketParticipant interface {
	OnOrderBookUpdate(OrderBookUpdate)
	OnTradeTicks(TradeTicks)
	OnOrderFilled(OrderFilled)
	OnHedgeFilled(HedgeFilled)
	OnOrderStatus(OrderStatus)
	OnError(ErrorEvent)
}
