package engine

import (
	"context"

	"go.uber.org/zap"

	"auto-trader-go/gateway"
	"auto-trader-go/infrastructure/logger"
)

// Dispatcher 把连接层送来的事件按到达顺序逐个交给参与者。
// Run 必须在单一 goroutine 运行：核心的全部状态变更都发生在
// 这条事件循环上，处理方法运行到底，事件之间互为原子。
type Dispatcher struct {
	inbox       chan gateway.Event
	participant gateway.MarketParticipant
	log         *logger.Logger
}

// NewDispatcher 创建容量为 size 的调度器。
func NewDispatcher(size int, participant gateway.MarketParticipant, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		inbox:       make(chan gateway.Event, size),
		participant: participant,
		log:         log,
	}
}

// Inbox 返回入站事件通道，连接层向此投递。
func (d *Dispatcher) Inbox() chan<- gateway.Event {
	return d.inbox
}

// Run 启动事件循环，直到 ctx 取消。
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("dispatcher stopping")
			return ctx.Err()
		case ev := <-d.inbox:
			d.dispatch(ev)
		}
	}
}

func (d *Dispatcher) dispatch(ev gateway.Event) {
	switch e := ev.(type) {
	case gateway.OrderBookUpdate:
		d.participant.OnOrderBookUpdate(e)
	case gateway.TradeTicks:
		d.participant.OnTradeTicks(e)
	case gateway.OrderFilled:
		d.participant.OnOrderFilled(e)
	case gateway.HedgeFilled:
		d.participant.OnHedgeFilled(e)
	case gateway.OrderStatus:
		d.participant.OnOrderStatus(e)
	case gateway.ErrorEvent:
		d.participant.OnError(e)
	default:
		d.log.Warn("unknown event", zap.Any("event", ev))
	}
}
