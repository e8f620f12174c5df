package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"auto-trader-go/gateway"
	"auto-trader-go/infrastructure/logger"
	"auto-trader-go/market"
	"auto-trader-go/metrics"
	"auto-trader-go/order"
	"auto-trader-go/strategy"
)

// SizingPolicy 下单量策略。
type SizingPolicy int8

const (
	// SizingFixedLot 固定手数，单笔报价假定被完全消耗或撤销。
	SizingFixedLot SizingPolicy = iota
	// SizingDepthAware 受顶档深度与同侧在途量约束，另设固定上限。
	SizingDepthAware
)

// BreachPolicy 成交导致仓位越限时的处置策略。
// 两个来源策略在此处真实分歧，作为配置轴暴露，不替用户选边。
type BreachPolicy int8

const (
	// BreachCancelAndUnwind 撤销触发订单并回滚仓位变化。
	BreachCancelAndUnwind BreachPolicy = iota
	// BreachClampAndAccept 接受成交，仓位收敛到上限。
	BreachClampAndAccept
)

// Config 控制器配置，启动后不可变。
type Config struct {
	Instrument    market.Instrument // 跟踪的品种
	LotSize       int64
	PositionLimit int64
	Bounds        market.Bounds
	LadderDepth   int  // 计算 spread 的档位 k
	TrendAdjust   bool // 是否叠加趋势项
	Lifespan      order.Lifespan
	Sizing        SizingPolicy
	QuoteCap      int64 // DepthAware 的单笔上限
	OnLimitBreach BreachPolicy
}

// FillRecorder 成交流水落盘接口，由 journal 实现；可为 nil。
type FillRecorder interface {
	Record(orderID int64, side order.Side, price, volume int64, hedge bool, at time.Time) error
}

// Stats 运行统计，快照经 Controller.Stats 读取。
type Stats struct {
	StartTime time.Time
	Events    int64
	Quotes    int64
	Cancels   int64
	Fills     int64
	Hedges    int64
	Errors    int64
	LastEvent time.Time
}

// Controller 报价/对冲控制器：顶层状态机。
//
// 行情事件触发撤旧报价、挂新报价；成交事件更新仓位并发出
// 反向对冲单；状态/错误事件把订单从台账退场。所有状态变更
// 都发生在调度器的单一事件循环里，互斥锁只保护外部统计读取。
type Controller struct {
	cfg     Config
	exec    gateway.ExecutionClient
	ledger  *order.Ledger
	trend   *market.TrendTracker
	pricer  *strategy.Pricer
	log     *logger.Logger
	met     *metrics.Set
	journal FillRecorder

	// 已发出的对冲单方向，按成交回报消账
	hedges map[int64]order.Side

	statsMu sync.RWMutex
	stats   Stats
}

// NewController 创建控制器。met 与 journal 可为 nil。
func NewController(cfg Config, exec gateway.ExecutionClient, log *logger.Logger, met *metrics.Set, journal FillRecorder) (*Controller, error) {
	if exec == nil {
		return nil, fmt.Errorf("engine: execution client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("engine: logger is required")
	}
	if cfg.PositionLimit <= 0 {
		return nil, fmt.Errorf("engine: position limit must be > 0, got %d", cfg.PositionLimit)
	}
	pricer, err := strategy.NewPricer(strategy.PricerConfig{
		LotSize:     cfg.LotSize,
		LadderDepth: cfg.LadderDepth,
		TrendAdjust: cfg.TrendAdjust,
		Bounds:      cfg.Bounds,
	})
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg:     cfg,
		exec:    exec,
		ledger:  order.NewLedger(cfg.PositionLimit),
		trend:   &market.TrendTracker{},
		pricer:  pricer,
		log:     log,
		met:     met,
		journal: journal,
		hedges:  make(map[int64]order.Side),
		stats:   Stats{StartTime: time.Now().UTC()},
	}, nil
}

// Position 当前净仓位。
func (c *Controller) Position() int64 { return c.ledger.Position() }

// Stats 返回统计快照。
func (c *Controller) Stats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// OnOrderBookUpdate 行情事件：更新趋势、重新定价、撤旧挂新。
func (c *Controller) OnOrderBookUpdate(u gateway.OrderBookUpdate) {
	c.countEvent(gateway.KindOrderBookUpdate)
	if u.Instrument != c.cfg.Instrument {
		return
	}

	c.trend.Observe(u.AskVolume(0), u.BidVolume(0))
	bidPrice, askPrice := c.pricer.Quote(u.Snapshot, c.ledger.Position(), c.trend.Volume(), c.trend.Trend())

	// 价格变化时撤旧单；新价为 0 哨兵时不动
	if id, price := c.ledger.ActiveBid(); id != 0 && bidPrice != price && bidPrice != 0 {
		c.cancel(id)
		c.ledger.ClearActiveBid()
	}
	if id, price := c.ledger.ActiveAsk(); id != 0 && askPrice != price && askPrice != 0 {
		c.cancel(id)
		c.ledger.ClearActiveAsk()
	}

	if id, _ := c.ledger.ActiveBid(); id == 0 && bidPrice != 0 && c.ledger.Position() < c.cfg.PositionLimit {
		if size := c.quoteSize(order.SideBid, u.Snapshot); size > 0 {
			c.insert(order.SideBid, bidPrice, size)
		}
	}
	if id, _ := c.ledger.ActiveAsk(); id == 0 && askPrice != 0 && c.ledger.Position() > -c.cfg.PositionLimit {
		if size := c.quoteSize(order.SideAsk, u.Snapshot); size > 0 {
			c.insert(order.SideAsk, askPrice, size)
		}
	}

	if c.met != nil {
		c.met.BidPrice.Set(float64(bidPrice))
		c.met.AskPrice.Set(float64(askPrice))
	}
}

// OnTradeTicks 成交明细：基线设计下仅记录。
func (c *Controller) OnTradeTicks(t gateway.TradeTicks) {
	c.countEvent(gateway.KindTradeTicks)
	c.log.Debug("trade ticks",
		zap.String("instrument", t.Instrument.String()),
		zap.Uint64("sequence", t.Sequence))
}

// OnOrderFilled 做市单成交：记仓位、处理限额、发对冲单。
func (c *Controller) OnOrderFilled(f gateway.OrderFilled) {
	c.countEvent(gateway.KindOrderFilled)
	now := time.Now().UTC()

	side, ok := c.ledger.ApplyFill(f.OrderID, f.Price, f.Volume, now)
	if !ok {
		c.unknownOrder("order_filled", f.OrderID)
		return
	}
	c.bumpStats(func(s *Stats) { s.Fills++ })
	if c.met != nil {
		c.met.Fills.Inc()
	}
	c.log.LogOrder("order_filled", f.OrderID, map[string]interface{}{
		"side": side.String(), "price": f.Price, "volume": f.Volume,
		"position": c.ledger.Position(),
	})
	c.record(f.OrderID, side, f.Price, f.Volume, false, now)

	pos := c.ledger.Position()
	breached := (side == order.SideBid && pos > c.cfg.PositionLimit) ||
		(side == order.SideAsk && pos < -c.cfg.PositionLimit)
	if breached {
		if c.met != nil {
			c.met.LimitBreaches.Inc()
		}
		c.log.LogRisk("position_limit_breach", map[string]interface{}{
			"order_id": f.OrderID, "position": pos, "limit": c.cfg.PositionLimit,
		})
		switch c.cfg.OnLimitBreach {
		case BreachCancelAndUnwind:
			c.cancel(f.OrderID)
			c.ledger.RollBack(side, f.Volume)
		case BreachClampAndAccept:
			c.ledger.ClampPosition()
		}
		c.setPositionGauge()
		return
	}
	c.hedge(side, f.Volume)
	c.setPositionGauge()
}

// OnHedgeFilled 对冲成交：消账并记录。
func (c *Controller) OnHedgeFilled(h gateway.HedgeFilled) {
	c.countEvent(gateway.KindHedgeFilled)
	side, ok := c.hedges[h.OrderID]
	if !ok {
		c.unknownOrder("hedge_filled", h.OrderID)
		return
	}
	delete(c.hedges, h.OrderID)
	c.log.LogOrder("hedge_filled", h.OrderID, map[string]interface{}{
		"side": side.String(), "price": h.Price, "volume": h.Volume,
	})
	c.record(h.OrderID, side, h.Price, h.Volume, true, time.Now().UTC())
}

// OnOrderStatus 状态回报：remaining 为 0 时订单退场。
func (c *Controller) OnOrderStatus(s gateway.OrderStatus) {
	c.countEvent(gateway.KindOrderStatus)
	c.applyStatus(s)
}

// OnError 错误回报：已知订单拒单退场，不臆测任何成交；其余仅告警。
func (c *Controller) OnError(e gateway.ErrorEvent) {
	c.countEvent(gateway.KindError)
	c.bumpStats(func(s *Stats) { s.Errors++ })
	c.log.Warn("exchange error",
		zap.Int64("order_id", e.OrderID),
		zap.String("message", e.Message))
	if e.OrderID == 0 {
		return
	}
	if retired, known := c.ledger.Reject(e.OrderID); known && retired {
		c.log.LogOrder("order_rejected", e.OrderID, map[string]interface{}{
			"message": e.Message,
		})
	}
}

// CancelAll 停机清扫：对全部在途订单发撤单指令。
func (c *Controller) CancelAll() {
	for _, id := range c.ledger.OutstandingIDs() {
		c.cancel(id)
	}
}

func (c *Controller) applyStatus(s gateway.OrderStatus) {
	retired, known := c.ledger.ApplyStatus(s.OrderID, s.Filled, s.Remaining)
	if !known {
		// 撤单与成交竞态下的重复终态回报走到这里，属预期空操作
		c.log.Debug("status for unknown order", zap.Int64("order_id", s.OrderID))
		return
	}
	if retired {
		c.log.LogOrder("order_retired", s.OrderID, map[string]interface{}{
			"fill_volume": s.Filled, "fees": s.Fees,
		})
	}
}

func (c *Controller) quoteSize(side order.Side, snap market.Snapshot) int64 {
	pos := c.ledger.Position()
	var room int64
	if side == order.SideBid {
		room = c.cfg.PositionLimit - pos
	} else {
		room = c.cfg.PositionLimit + pos
	}

	switch c.cfg.Sizing {
	case SizingDepthAware:
		room -= c.ledger.OutstandingVolume(side)
		var depth int64
		if side == order.SideBid {
			depth = snap.BidVolume(0)
		} else {
			depth = snap.AskVolume(0)
		}
		size := min64(room, depth)
		if size < 0 {
			size = 0
		}
		return min64(c.cfg.QuoteCap, size)
	default:
		return min64(room, c.cfg.LotSize)
	}
}

func (c *Controller) insert(side order.Side, price, size int64) {
	o := &order.Order{
		ID:    c.ledger.NextID(),
		Side:  side,
		Price: price,
		Size:  size,
	}
	c.ledger.Track(o)
	if err := c.exec.SendInsertOrder(o.ID, side, price, size, c.cfg.Lifespan); err != nil {
		// 指令未出本地，按拒单立即退场，避免槽位卡死
		c.log.LogError(err, map[string]interface{}{"command": "insert_order", "order_id": o.ID})
		c.ledger.Reject(o.ID)
		return
	}
	c.bumpStats(func(s *Stats) { s.Quotes++ })
	if c.met != nil {
		c.met.OrdersInserted.Inc()
	}
	c.log.LogOrder("order_inserted", o.ID, map[string]interface{}{
		"side": side.String(), "price": price, "size": size,
		"lifespan": c.cfg.Lifespan.String(),
	})
}

// hedge 以最劣合法价在对手方向发对冲单，量与成交一致。
// 确认从不到达也不重试；对账属连接层运维范畴。
func (c *Controller) hedge(filledSide order.Side, volume int64) {
	hedgeID := c.ledger.NextID()
	hedgeSide := filledSide.Opposite()
	price := c.cfg.Bounds.MinBidNearestTick
	if hedgeSide == order.SideBid {
		price = c.cfg.Bounds.MaxAskNearestTick
	}
	if err := c.exec.SendHedgeOrder(hedgeID, hedgeSide, price, volume); err != nil {
		c.log.LogError(err, map[string]interface{}{"command": "hedge_order", "order_id": hedgeID})
		return
	}
	c.hedges[hedgeID] = hedgeSide
	c.bumpStats(func(s *Stats) { s.Hedges++ })
	if c.met != nil {
		c.met.Hedges.Inc()
	}
	c.log.LogOrder("hedge_sent", hedgeID, map[string]interface{}{
		"side": hedgeSide.String(), "price": price, "volume": volume,
	})
}

func (c *Controller) cancel(id int64) {
	if err := c.exec.SendCancelOrder(id); err != nil {
		c.log.LogError(err, map[string]interface{}{"command": "cancel_order", "order_id": id})
		return
	}
	c.bumpStats(func(s *Stats) { s.Cancels++ })
	if c.met != nil {
		c.met.OrdersCancelled.Inc()
	}
	c.log.LogOrder("order_cancel_sent", id, nil)
}

func (c *Controller) record(id int64, side order.Side, price, volume int64, hedge bool, at time.Time) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(id, side, price, volume, hedge, at); err != nil {
		// 流水落盘失败不影响交易路径
		c.log.LogError(err, map[string]interface{}{"command": "journal_record", "order_id": id})
	}
}

func (c *Controller) unknownOrder(event string, id int64) {
	if c.met != nil {
		c.met.UnknownOrders.Inc()
	}
	c.log.Warn("event for unknown order",
		zap.String("event", event),
		zap.Int64("order_id", id))
}

func (c *Controller) setPositionGauge() {
	if c.met != nil {
		c.met.Position.Set(float64(c.ledger.Position()))
	}
}

func (c *Controller) countEvent(kind gateway.EventKind) {
	c.bumpStats(func(s *Stats) {
		s.Events++
		s.LastEvent = time.Now().UTC()
	})
	if c.met != nil {
		c.met.EventsTotal.WithLabelValues(kind.String()).Inc()
	}
}

func (c *Controller) bumpStats(fn func(*Stats)) {
	c.statsMu.Lock()
	fn(&c.stats)
	c.statsMu.Unlock()
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
