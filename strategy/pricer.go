package strategy

import (
	"fmt"

	"auto-trader-go/market"
)

// PricerConfig 定价参数。
type PricerConfig struct {
	LotSize     int64 // 仓位折算为偏移乘数的单位手数
	LadderDepth int   // 计算 spread 的档位 k（基线 0，深档 2）
	TrendAdjust bool  // 是否叠加趋势项
	Bounds      market.Bounds
}

// Pricer 报价定价引擎：由盘口、仓位与趋势状态计算公允价，
// 再导出对称的买卖报价。纯函数，无 I/O、无副作用。
type Pricer struct {
	cfg PricerConfig
}

// NewPricer 创建定价引擎。
func NewPricer(cfg PricerConfig) (*Pricer, error) {
	if cfg.LotSize <= 0 {
		return nil, fmt.Errorf("pricer: lot size must be > 0, got %d", cfg.LotSize)
	}
	if cfg.LadderDepth < 0 {
		return nil, fmt.Errorf("pricer: ladder depth must be >= 0, got %d", cfg.LadderDepth)
	}
	if cfg.Bounds.Tick <= 0 {
		return nil, fmt.Errorf("pricer: tick must be > 0, got %d", cfg.Bounds.Tick)
	}
	return &Pricer{cfg: cfg}, nil
}

// Quote 计算本次事件的买卖报价（分，已对齐 tick 且在合法区间内）。
// 盘口任一侧缺失时返回 (0, 0) 哨兵，表示无报价。
//
// trendVolume 为趋势跟踪器记录的顶档合并量，trend ∈ {-1, 0, +1}。
// spread 为零或量为零时相应调整项自然为零，不会除零。
func (p *Pricer) Quote(snap market.Snapshot, position, trendVolume int64, trend int) (bidPrice, askPrice int64) {
	bestBid := snap.BidPrice(0)
	bestAsk := snap.AskPrice(0)
	if bestBid == 0 || bestAsk == 0 {
		return 0, 0
	}

	bounds := p.cfg.Bounds
	mid := (bestBid + bestAsk) / 2
	spread := snap.AskPrice(p.cfg.LadderDepth) - snap.BidPrice(p.cfg.LadderDepth)

	// 库存偏移：仓位换算成手数后按 spread 的比例推离公允价
	lots := position / p.cfg.LotSize
	fair := mid + lots*spread/200
	fair = market.Clamp(fair, bounds.MinBidNearestTick, bounds.MaxAskNearestTick)

	if p.cfg.TrendAdjust && trendVolume != 0 {
		// 与量同向放大：趋势为零时无贡献
		switch {
		case trend > 0:
			fair += trendVolume * spread / 200
		case trend < 0:
			fair -= trendVolume * spread / 200
		}
	}

	bidPrice = fair - spread/2
	askPrice = fair + spread/2
	bidPrice = market.Clamp(bidPrice, bounds.MinBidNearestTick, bounds.MaxAskNearestTick-spread)
	askPrice = market.Clamp(askPrice, bounds.MinBidNearestTick+spread, bounds.MaxAskNearestTick)
	bidPrice = market.RoundToTick(bidPrice, bounds.Tick)
	askPrice = market.RoundToTick(askPrice, bounds.Tick)
	return bidPrice, askPrice
}
