package market

// RoundToTick 把价格向下对齐到 tick 的整数倍。幂等。
// 只用于本方计算出的价格；交易所回报的成交价不做对齐。
func RoundToTick(price, tick int64) int64 {
	return price / tick * tick
}

// Clamp 把价格限制在 [lo, hi] 区间内。
func Clamp(price, lo, hi int64) int64 {
	if price < lo {
		return lo
	}
	if price > hi {
		return hi
	}
	return price
}

// Bounds 由品种配置导出的合法报价区间（已对齐 tick）。
type Bounds struct {
	Tick              int64
	MinBidNearestTick int64 // 最低可报买价
	MaxAskNearestTick int64 // 最高可报卖价
}

// NewBounds 根据 tick 与交易所价格区间计算最近合法 tick 边界。
func NewBounds(tick, minPrice, maxPrice int64) Bounds {
	return Bounds{
		Tick:              tick,
		MinBidNearestTick: (minPrice + tick) / tick * tick,
		MaxAskNearestTick: maxPrice / tick * tick,
	}
}
