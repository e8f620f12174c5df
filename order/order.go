package order

import "time"

// Side 订单方向。
type Side int8

const (
	SideBid Side = iota
	SideAsk
)

// String 返回方向名称。
func (s Side) String() string {
	if s == SideBid {
		return "BID"
	}
	return "ASK"
}

// Opposite 返回对手方向，用于对冲腿。
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Lifespan 订单有效期策略。
type Lifespan int8

const (
	// FillAndKill 立即成交可成交部分，剩余撤销。
	FillAndKill Lifespan = iota
	// GoodForDay 挂单直到成交、撤销或收盘。
	GoodForDay
)

// String 返回有效期的线路表示。
func (l Lifespan) String() string {
	if l == FillAndKill {
		return "FAK"
	}
	return "GFD"
}

// Status represents order lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING" // 指令已发出，未收到确认
	StatusActive    Status = "ACTIVE"
	StatusPartial   Status = "PARTIAL"
	StatusFilled    Status = "FILLED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// IsTerminal 判断是否终态。
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// Order 台账持有的在途订单视图。
// 从发出指令起由台账独占，观察到终态后丢弃。
type Order struct {
	ID     int64
	Side   Side
	Price  int64 // 分，已对齐 tick
	Size   int64 // 申报数量
	Filled int64 // 累计成交量
	Status Status

	// LastFillAt 最近一次成交时间，供事后复盘用。
	LastFillAt time.Time
}

// Remaining 返回剩余数量。
func (o *Order) Remaining() int64 {
	return o.Size - o.Filled
}
