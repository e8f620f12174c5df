package market

// TrendTracker 从顶档量推导方向信号。
// 只保留上一次观测值，每个行情事件更新一次。
type TrendTracker struct {
	volume int64
	trend  int
	seen   bool
}

// Observe 记录顶档合并量 (askVol+bidVol)/2 并更新趋势符号。
// 首次观测没有信号（trend 为 0）。
func (t *TrendTracker) Observe(askVolume, bidVolume int64) {
	v := (askVolume + bidVolume) / 2
	if !t.seen {
		t.volume = v
		t.seen = true
		return
	}
	switch delta := v - t.volume; {
	case delta > 0:
		t.trend = 1
	case delta < 0:
		t.trend = -1
	default:
		t.trend = 0
	}
	t.volume = v
}

// Trend 返回当前趋势符号，取值 -1、0、+1。
func (t *TrendTracker) Trend() int { return t.trend }

// Volume 返回最近一次观测到的顶档合并量。
func (t *TrendTracker) Volume() int64 { return t.volume }
