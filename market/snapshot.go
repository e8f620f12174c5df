package market

// Instrument 交易所内的品种编号。
type Instrument int

const (
	// InstrumentFuture 对冲腿（流动性好，保证成交）。
	InstrumentFuture Instrument = iota
	// InstrumentETF 做市腿。
	InstrumentETF
)

// String 返回品种名称。
func (i Instrument) String() string {
	switch i {
	case InstrumentFuture:
		return "FUTURE"
	case InstrumentETF:
		return "ETF"
	default:
		return "UNKNOWN"
	}
}

// Snapshot 一次盘口快照：按档位排序的价量阶梯。
// 快照是瞬态数据，到达时同步消费，除趋势状态外不保留。
type Snapshot struct {
	Instrument Instrument
	Sequence   uint64
	AskPrices  []int64 // 价格单位：分，已对齐 tick
	AskVolumes []int64
	BidPrices  []int64
	BidVolumes []int64
}

// AskPrice 返回第 level 档卖价；档位缺失返回 0。
func (s Snapshot) AskPrice(level int) int64 {
	if level < 0 || level >= len(s.AskPrices) {
		return 0
	}
	return s.AskPrices[level]
}

// BidPrice 返回第 level 档买价；档位缺失返回 0。
func (s Snapshot) BidPrice(level int) int64 {
	if level < 0 || level >= len(s.BidPrices) {
		return 0
	}
	return s.BidPrices[level]
}

// AskVolume 返回第 level 档卖量；档位缺失返回 0。
func (s Snapshot) AskVolume(level int) int64 {
	if level < 0 || level >= len(s.AskVolumes) {
		return 0
	}
	return s.AskVolumes[level]
}

// BidVolume 返回第 level 档买量；档位缺失返回 0。
func (s Snapshot) BidVolume(level int) int64 {
	if level < 0 || level >= len(s.BidVolumes) {
		return 0
	}
	return s.BidVolumes[level]
}
