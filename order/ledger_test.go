package order

import (
	"testing"
	"time"
)

func TestNextIDMonotonic(t *testing.T) {
	l := NewLedger(100)
	seen := make(map[int64]bool)
	prev := int64(0)
	for i := 0; i < 1000; i++ {
		id := l.NextID()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
		prev = id
	}
}

func TestTrackOccupiesSlotBeforeAck(t *testing.T) {
	l := NewLedger(100)
	o := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: 10}
	l.Track(o)

	if id, price := l.ActiveBid(); id != o.ID || price != 9900 {
		t.Fatalf("active bid slot = (%d,%d), want (%d,9900)", id, price, o.ID)
	}
	if !l.Known(o.ID) {
		t.Fatalf("tracked order must be known before ack")
	}
	if o.Status != StatusPending {
		t.Fatalf("tracked order status = %s, want PENDING", o.Status)
	}
}

func TestApplyFillMovesPosition(t *testing.T) {
	l := NewLedger(100)
	bid := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: 10}
	l.Track(bid)

	side, ok := l.ApplyFill(bid.ID, 9900, 10, time.Now())
	if !ok || side != SideBid {
		t.Fatalf("ApplyFill = (%v,%v)", side, ok)
	}
	if l.Position() != 10 {
		t.Fatalf("position = %d, want 10", l.Position())
	}
	if bid.Status != StatusFilled {
		t.Fatalf("status = %s, want FILLED", bid.Status)
	}

	ask := &Order{ID: l.NextID(), Side: SideAsk, Price: 10100, Size: 4}
	l.Track(ask)
	l.ApplyFill(ask.ID, 10100, 3, time.Now())
	if l.Position() != 7 {
		t.Fatalf("position = %d, want 7", l.Position())
	}
	if ask.Status != StatusPartial {
		t.Fatalf("status = %s, want PARTIAL", ask.Status)
	}
}

func TestApplyFillUnknownOrderIsIgnored(t *testing.T) {
	l := NewLedger(100)
	if _, ok := l.ApplyFill(9999, 10000, 5, time.Now()); ok {
		t.Fatalf("fill for unknown id must not be applied")
	}
	if l.Position() != 0 {
		t.Fatalf("position mutated by unknown fill: %d", l.Position())
	}
}

func TestRollBackAndClamp(t *testing.T) {
	l := NewLedger(100)
	bid := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: 10}
	l.Track(bid)
	l.ApplyFill(bid.ID, 9900, 10, time.Now())

	l.RollBack(SideBid, 10)
	if l.Position() != 0 {
		t.Fatalf("position after rollback = %d, want 0", l.Position())
	}

	l.position = 105
	l.ClampPosition()
	if l.Position() != 100 {
		t.Fatalf("position after clamp = %d, want 100", l.Position())
	}
	l.position = -105
	l.ClampPosition()
	if l.Position() != -100 {
		t.Fatalf("position after clamp = %d, want -100", l.Position())
	}
}

func TestApplyStatusRetiresOnZeroRemaining(t *testing.T) {
	l := NewLedger(100)
	bid := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: 10}
	l.Track(bid)

	retired, known := l.ApplyStatus(bid.ID, 0, 10)
	if retired || !known {
		t.Fatalf("nonzero remaining must not retire: retired=%v known=%v", retired, known)
	}
	if bid.Status != StatusActive {
		t.Fatalf("status after first ack = %s, want ACTIVE", bid.Status)
	}

	retired, known = l.ApplyStatus(bid.ID, 0, 0)
	if !retired || !known {
		t.Fatalf("zero remaining must retire: retired=%v known=%v", retired, known)
	}
	if id, _ := l.ActiveBid(); id != 0 {
		t.Fatalf("slot not cleared, active bid id = %d", id)
	}
	if l.Known(bid.ID) {
		t.Fatalf("retired order still known")
	}

	// 重复终态回报是空操作
	retired, known = l.ApplyStatus(bid.ID, 0, 0)
	if retired || known {
		t.Fatalf("duplicate terminal status must be a no-op: retired=%v known=%v", retired, known)
	}
}

func TestRejectRetiresWithoutAssumedFill(t *testing.T) {
	l := NewLedger(100)
	bid := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: 10}
	l.Track(bid)

	retired, known := l.Reject(bid.ID)
	if !retired || !known {
		t.Fatalf("Reject = (%v,%v), want (true,true)", retired, known)
	}
	if bid.Status != StatusRejected {
		t.Fatalf("status = %s, want REJECTED", bid.Status)
	}
	if id, _ := l.ActiveBid(); id != 0 {
		t.Fatalf("slot not cleared, active bid id = %d", id)
	}
	if l.Position() != 0 {
		t.Fatalf("position mutated by reject: %d", l.Position())
	}

	// 部分成交后被拒：成交既成事实，订单按 FILLED 退场
	ask := &Order{ID: l.NextID(), Side: SideAsk, Price: 10100, Size: 10}
	l.Track(ask)
	l.ApplyFill(ask.ID, 10100, 4, time.Now())
	l.Reject(ask.ID)
	if ask.Status != StatusFilled {
		t.Fatalf("status after reject with fills = %s, want FILLED", ask.Status)
	}

	if retired, known := l.Reject(9999); retired || known {
		t.Fatalf("reject of unknown id must be a no-op")
	}
}

func TestOutstandingVolumeSums(t *testing.T) {
	l := NewLedger(100)
	for _, size := range []int64{5, 7} {
		o := &Order{ID: l.NextID(), Side: SideBid, Price: 9900, Size: size}
		l.Track(o)
		l.ClearActiveBid() // 旧槽位被替换，订单仍在途
	}
	if got := l.OutstandingVolume(SideBid); got != 12 {
		t.Fatalf("outstanding bid volume = %d, want 12", got)
	}
	if got := l.OutstandingVolume(SideAsk); got != 0 {
		t.Fatalf("outstanding ask volume = %d, want 0", got)
	}
	if got := len(l.OutstandingIDs()); got != 2 {
		t.Fatalf("outstanding ids = %d, want 2", got)
	}
}
