package journal

import (
	"path/filepath"
	"testing"
	"time"

	"auto-trader-go/order"
)

func TestRecordAndReadBack(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "fills.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	if err := j.Record(7, order.SideBid, 9900, 10, false, at); err != nil {
		t.Fatalf("Record fill: %v", err)
	}
	if err := j.Record(8, order.SideAsk, 100, 10, true, at.Add(time.Millisecond)); err != nil {
		t.Fatalf("Record hedge: %v", err)
	}

	recs, err := j.Fills()
	if err != nil {
		t.Fatalf("Fills: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].OrderID != 7 || recs[0].Side != "BID" || recs[0].Hedge {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].OrderID != 8 || !recs[1].Hedge {
		t.Fatalf("unexpected second record: %+v", recs[1])
	}
}
