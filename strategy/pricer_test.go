package strategy

import (
	"testing"

	"auto-trader-go/market"
)

func testPricer(t *testing.T, depth int, trendAdjust bool) *Pricer {
	t.Helper()
	p, err := NewPricer(PricerConfig{
		LotSize:     10,
		LadderDepth: depth,
		TrendAdjust: trendAdjust,
		Bounds:      market.NewBounds(100, 1, 2147483647),
	})
	if err != nil {
		t.Fatalf("NewPricer: %v", err)
	}
	return p
}

func ladder(bid0, ask0 int64) market.Snapshot {
	return market.Snapshot{
		Instrument: market.InstrumentFuture,
		AskPrices:  []int64{ask0, ask0 + 100, ask0 + 200},
		AskVolumes: []int64{50, 40, 30},
		BidPrices:  []int64{bid0, bid0 - 100, bid0 - 200},
		BidVolumes: []int64{50, 40, 30},
	}
}

func TestQuoteStraddlesTopOfBookWhenFlat(t *testing.T) {
	p, err := NewPricer(PricerConfig{
		LotSize: 10,
		Bounds:  market.NewBounds(2, 1, 2147483646),
	})
	if err != nil {
		t.Fatalf("NewPricer: %v", err)
	}
	bid, ask := p.Quote(ladder(10000, 10002), 0, 0, 0)

	// 对称报价恰好复现盘口：买不得高于 best bid，卖不得低于 best ask
	if bid > 10000 {
		t.Fatalf("bid %d crosses best bid 10000", bid)
	}
	if ask < 10002 {
		t.Fatalf("ask %d crosses best ask 10002", ask)
	}
	if bid%2 != 0 || ask%2 != 0 {
		t.Fatalf("quotes not tick aligned: bid=%d ask=%d", bid, ask)
	}
	if bid < 2 || ask > 2147483646 {
		t.Fatalf("quotes out of bounds: bid=%d ask=%d", bid, ask)
	}
}

func TestQuoteSkewsAgainstInventory(t *testing.T) {
	p := testPricer(t, 0, false)
	snap := ladder(99000, 101000) // spread 2000，放大库存项

	flatBid, flatAsk := p.Quote(snap, 0, 0, 0)
	longBid, longAsk := p.Quote(snap, 100, 0, 0)
	shortBid, shortAsk := p.Quote(snap, -100, 0, 0)

	if longBid <= flatBid || longAsk <= flatAsk {
		t.Fatalf("long inventory must push quotes up: flat=(%d,%d) long=(%d,%d)",
			flatBid, flatAsk, longBid, longAsk)
	}
	if shortBid >= flatBid || shortAsk >= flatAsk {
		t.Fatalf("short inventory must push quotes down: flat=(%d,%d) short=(%d,%d)",
			flatBid, flatAsk, shortBid, shortAsk)
	}
}

func TestQuoteUsesConfiguredLadderDepth(t *testing.T) {
	snap := market.Snapshot{
		AskPrices:  []int64{10002, 10100, 10300},
		AskVolumes: []int64{10, 10, 10},
		BidPrices:  []int64{10000, 9900, 9700},
		BidVolumes: []int64{10, 10, 10},
	}
	shallow := testPricer(t, 0, false)
	deep := testPricer(t, 2, false)

	sBid, sAsk := shallow.Quote(snap, 0, 0, 0)
	dBid, dAsk := deep.Quote(snap, 0, 0, 0)

	// 深档 spread 600 对比顶档 2，深档报价必须更宽
	if dAsk-dBid <= sAsk-sBid {
		t.Fatalf("deep ladder quote not wider: shallow=(%d,%d) deep=(%d,%d)", sBid, sAsk, dBid, dAsk)
	}
}

func TestQuoteTrendAdjustment(t *testing.T) {
	p := testPricer(t, 0, true)
	snap := ladder(99000, 101000)

	neutralBid, _ := p.Quote(snap, 0, 200, 0)
	upBid, _ := p.Quote(snap, 0, 200, 1)
	downBid, _ := p.Quote(snap, 0, 200, -1)

	if upBid <= neutralBid {
		t.Fatalf("positive trend must raise quotes: neutral=%d up=%d", neutralBid, upBid)
	}
	if downBid >= neutralBid {
		t.Fatalf("negative trend must lower quotes: neutral=%d down=%d", neutralBid, downBid)
	}

	// 量为零时趋势项短路
	zeroVolBid, _ := p.Quote(snap, 0, 0, 1)
	if zeroVolBid != neutralBid {
		t.Fatalf("zero tracked volume must contribute nothing: %d vs %d", zeroVolBid, neutralBid)
	}
}

func TestQuoteZeroSpreadDegeneracy(t *testing.T) {
	p := testPricer(t, 0, true)
	snap := market.Snapshot{
		AskPrices:  []int64{10000, 10000, 10000},
		AskVolumes: []int64{10, 10, 10},
		BidPrices:  []int64{10000, 10000, 10000},
		BidVolumes: []int64{10, 10, 10},
	}
	bid, ask := p.Quote(snap, 50, 200, 1)
	if bid != 10000 || ask != 10000 {
		t.Fatalf("zero spread must collapse to mid: bid=%d ask=%d", bid, ask)
	}
}

func TestQuoteEmptyBookSentinel(t *testing.T) {
	p := testPricer(t, 0, false)
	bid, ask := p.Quote(market.Snapshot{}, 0, 0, 0)
	if bid != 0 || ask != 0 {
		t.Fatalf("empty book must yield sentinel quotes, got bid=%d ask=%d", bid, ask)
	}
}

func TestQuoteClampedNearBounds(t *testing.T) {
	p := testPricer(t, 0, false)
	snap := ladder(200, 400) // 逼近最低合法价
	bid, ask := p.Quote(snap, -100, 0, 0) // 空头仓位把公允价往下推

	if bid < 100 {
		t.Fatalf("bid %d below minimum legal price", bid)
	}
	if ask < 100+200 { // MinBidNearestTick + spread
		t.Fatalf("ask %d below min+spread", ask)
	}
}
