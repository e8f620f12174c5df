package order

import (
	"errors"
	"time"
)

// ErrUnknownOrder 回报引用了台账之外的订单。
var ErrUnknownOrder = errors.New("unknown order")

// Ledger 维护在途订单与净仓位，并持有订单号生成器。
//
// 不变量（每个事件处理完之后恒成立）：
//   - position ∈ [-limit, +limit]（越界由控制器在同一事件内按策略消解）；
//   - 每侧至多一个活跃报价槽位，0 表示空；
//   - 订单号单调递增，进程内不复用。int64 计数器在现实事件量下
//     不可能回绕（每纳秒一单也要用近三百年）。
//
// 单线程事件循环内使用，无内部锁。
type Ledger struct {
	limit    int64
	position int64
	nextID   int64

	bids map[int64]*Order
	asks map[int64]*Order

	bidID    int64
	bidPrice int64
	askID    int64
	askPrice int64
}

// NewLedger 创建仓位上限为 limit 的台账。
func NewLedger(limit int64) *Ledger {
	return &Ledger{
		limit: limit,
		bids:  make(map[int64]*Order),
		asks:  make(map[int64]*Order),
	}
}

// NextID 发放下一个订单号，从 1 开始。
func (l *Ledger) NextID() int64 {
	l.nextID++
	return l.nextID
}

// Position 当前净仓位。
func (l *Ledger) Position() int64 { return l.position }

// Limit 仓位上限。
func (l *Ledger) Limit() int64 { return l.limit }

// ActiveBid 返回活跃买单槽位（id 为 0 表示空）。
func (l *Ledger) ActiveBid() (id, price int64) { return l.bidID, l.bidPrice }

// ActiveAsk 返回活跃卖单槽位（id 为 0 表示空）。
func (l *Ledger) ActiveAsk() (id, price int64) { return l.askID, l.askPrice }

// ClearActiveBid 清空买单槽位。订单本身留在在途集合里，
// 直到终态回报到达——撤单在途期间仍可能成交。
func (l *Ledger) ClearActiveBid() { l.bidID, l.bidPrice = 0, 0 }

// ClearActiveAsk 清空卖单槽位。
func (l *Ledger) ClearActiveAsk() { l.askID, l.askPrice = 0, 0 }

// Track 在发出指令的同时登记订单并占用对应槽位。
// 先登记后确认，防止重复报价。
func (l *Ledger) Track(o *Order) {
	o.Status = StatusPending
	if o.Side == SideBid {
		l.bids[o.ID] = o
		l.bidID, l.bidPrice = o.ID, o.Price
	} else {
		l.asks[o.ID] = o
		l.askID, l.askPrice = o.ID, o.Price
	}
}

// Known 判断订单号是否在任一在途集合中。
func (l *Ledger) Known(id int64) bool {
	if _, ok := l.bids[id]; ok {
		return true
	}
	_, ok := l.asks[id]
	return ok
}

// OutstandingVolume 同侧在途申报量之和，用于深度感知下单量计算。
func (l *Ledger) OutstandingVolume(side Side) int64 {
	var sum int64
	if side == SideBid {
		for _, o := range l.bids {
			sum += o.Size
		}
	} else {
		for _, o := range l.asks {
			sum += o.Size
		}
	}
	return sum
}

// OutstandingIDs 返回全部在途订单号，供停机时清扫撤单。
func (l *Ledger) OutstandingIDs() []int64 {
	ids := make([]int64, 0, len(l.bids)+len(l.asks))
	for id := range l.bids {
		ids = append(ids, id)
	}
	for id := range l.asks {
		ids = append(ids, id)
	}
	return ids
}

// ApplyFill 把成交计入仓位并推进订单状态。
// 返回订单方向；订单号未知时 ok 为 false 且状态不变。
// 成交价由交易所给出，不做 tick 对齐。
func (l *Ledger) ApplyFill(id, price, volume int64, at time.Time) (side Side, ok bool) {
	o, exists := l.bids[id]
	if exists {
		l.position += volume
	} else if o, exists = l.asks[id]; exists {
		l.position -= volume
	} else {
		return 0, false
	}
	o.Filled += volume
	o.LastFillAt = at
	if o.Remaining() <= 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusPartial
	}
	_ = price // 均价仅透传给日志与流水，台账不持有
	return o.Side, true
}

// RollBack 撤销一次成交对仓位的影响（限额突破时的回滚路径）。
func (l *Ledger) RollBack(side Side, volume int64) {
	if side == SideBid {
		l.position -= volume
	} else {
		l.position += volume
	}
}

// ClampPosition 把仓位收敛到 [-limit, +limit]。
func (l *Ledger) ClampPosition() {
	if l.position > l.limit {
		l.position = l.limit
	} else if l.position < -l.limit {
		l.position = -l.limit
	}
}

// ApplyStatus 应用一条状态回报。remaining 为 0 时订单退场：
// 从槽位与在途集合中移除，无论经由成交还是撤销。
// 对已退场订单的重复终态回报是无害的空操作（retired 为 false）。
func (l *Ledger) ApplyStatus(id, fillVolume, remaining int64) (retired, known bool) {
	var o *Order
	if b, ok := l.bids[id]; ok {
		o = b
	} else if a, ok := l.asks[id]; ok {
		o = a
	} else {
		return false, false
	}

	if remaining == 0 {
		if id == l.bidID {
			l.ClearActiveBid()
		}
		if id == l.askID {
			l.ClearActiveAsk()
		}
		delete(l.bids, id)
		delete(l.asks, id)
		if o.Filled > 0 || fillVolume > 0 {
			o.Status = StatusFilled
		} else {
			o.Status = StatusCancelled
		}
		return true, true
	}

	// 首次非零确认：Pending -> Active
	if o.Status == StatusPending {
		o.Status = StatusActive
	}
	if fillVolume > 0 && o.Status != StatusFilled {
		o.Status = StatusPartial
	}
	return false, true
}

// Reject 错误回报触发的退场，语义同 remaining 为 0 的状态回报，
// 但无成交的订单标记为 REJECTED 而非 CANCELLED。
func (l *Ledger) Reject(id int64) (retired, known bool) {
	var o *Order
	if b, ok := l.bids[id]; ok {
		o = b
	} else if a, ok := l.asks[id]; ok {
		o = a
	} else {
		return false, false
	}
	if id == l.bidID {
		l.ClearActiveBid()
	}
	if id == l.askID {
		l.ClearActiveAsk()
	}
	delete(l.bids, id)
	delete(l.asks, id)
	if o.Filled > 0 {
		o.Status = StatusFilled
	} else {
		o.Status = StatusRejected
	}
	return true, true
}
