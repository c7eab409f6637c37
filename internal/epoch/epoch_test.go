package epoch

import (
	"testing"
	"time"

	"github.com/likesweetie/zed-f9r-parser/internal/nmea"
)

func decodeAll(t *testing.T, lines ...string) []nmea.Message {
	t.Helper()
	d := nmea.NewDecoder(false)
	var msgs []nmea.Message
	for _, line := range lines {
		m := d.Decode(line)
		if m == nil {
			t.Fatalf("decode failed for %q", line)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

const (
	ggaLine = "$GNGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	rmcLine = "$GNRMC,123520,A,4807.038,N,01131.000,E,022.4,084.4,230394,,,A"
	txtLine = "$GNTXT,01,01,02,hello"
)

func TestAddAutoOpensEpoch(t *testing.T) {
	a := NewAggregator("")
	msgs := decodeAll(t, rmcLine)

	if a.Current() != nil {
		t.Fatal("no epoch should be open before the first record")
	}
	if closed := a.Add(msgs[0]); closed != nil {
		t.Fatalf("non-rollover record must not close an epoch, got id %d", closed.ID)
	}
	cur := a.Current()
	if cur == nil {
		t.Fatal("expected auto-opened epoch")
	}
	if cur.ID != 1 {
		t.Errorf("first epoch id = %d, want 1", cur.ID)
	}
	if cur.Len() != 1 {
		t.Errorf("record count = %d, want 1", cur.Len())
	}
}

func TestBeginIsIdempotentWhileOpen(t *testing.T) {
	a := NewAggregator("")
	first := a.Begin()
	second := a.Begin()
	if first != second {
		t.Fatal("Begin while an epoch is open must return the open epoch")
	}
	if first.ID != 1 {
		t.Errorf("id = %d, want 1", first.ID)
	}

	a.Close()
	third := a.Begin()
	if third.ID != 2 {
		t.Errorf("id after close = %d, want 2", third.ID)
	}
}

func TestCloseDetachesEpoch(t *testing.T) {
	a := NewAggregator("")
	msgs := decodeAll(t, txtLine)
	a.Add(msgs[0])

	frame := a.Close()
	if frame == nil || frame.Len() != 1 {
		t.Fatal("expected closed frame with one record")
	}
	if a.Current() != nil {
		t.Fatal("no epoch should remain open after Close")
	}
	if again := a.Close(); again != nil {
		t.Fatal("second Close must return nil")
	}
}

func TestRolloverOrdering(t *testing.T) {
	a := NewAggregator("")
	msgs := decodeAll(t, txtLine, ggaLine, rmcLine, ggaLine)

	// txt, gga, rmc: nothing closes until the second GGA arrives.
	if closed := a.Add(msgs[0]); closed != nil {
		t.Fatal("txt must not close")
	}
	if closed := a.Add(msgs[1]); closed == nil || closed.Len() != 1 {
		t.Fatal("first GGA must close the already-open epoch (with just the txt)")
	} else if closed.ID != 1 {
		t.Errorf("closed id = %d, want 1", closed.ID)
	}
	if closed := a.Add(msgs[2]); closed != nil {
		t.Fatal("rmc must not close")
	}

	closed := a.Add(msgs[3])
	if closed == nil {
		t.Fatal("second GGA must close the epoch")
	}

	// The closed epoch holds {GGA(1st), RMC} in arrival order; the GGA
	// that triggered the close is NOT in it.
	if closed.Len() != 2 {
		t.Fatalf("closed epoch has %d records, want 2", closed.Len())
	}
	all := closed.All()
	if _, ok := all[0].(nmea.GGA); !ok {
		t.Errorf("first record is %T, want the opening GGA", all[0])
	}
	if _, ok := all[1].(nmea.RMC); !ok {
		t.Errorf("second record is %T, want RMC", all[1])
	}

	// And the triggering GGA opened the next epoch.
	cur := a.Current()
	if cur == nil || cur.Len() != 1 {
		t.Fatal("triggering GGA must live in the fresh epoch")
	}
	if len(cur.GGA()) != 1 {
		t.Error("fresh epoch should hold exactly the triggering GGA")
	}
}

func TestRolloverClosesEmptyEpoch(t *testing.T) {
	a := NewAggregator("")
	a.Begin()
	msgs := decodeAll(t, ggaLine)

	closed := a.Add(msgs[0])
	if closed == nil {
		t.Fatal("rollover must close the open epoch even when empty")
	}
	if closed.Len() != 0 {
		t.Errorf("closed epoch has %d records, want 0", closed.Len())
	}
}

func TestRolloverOnFirstRecordClosesNothing(t *testing.T) {
	a := NewAggregator("")
	msgs := decodeAll(t, ggaLine)
	if closed := a.Add(msgs[0]); closed != nil {
		t.Fatal("no epoch was open, nothing to close")
	}
	if a.Current() == nil || a.Current().Len() != 1 {
		t.Fatal("triggering record must open and join a fresh epoch")
	}
}

func TestCustomRolloverTag(t *testing.T) {
	a := NewAggregator("RMC")
	msgs := decodeAll(t, ggaLine, rmcLine)

	if closed := a.Add(msgs[0]); closed != nil {
		t.Fatal("GGA must not rotate when RMC is the rollover kind")
	}
	if closed := a.Add(msgs[1]); closed == nil {
		t.Fatal("RMC must rotate")
	}
}

func TestFrameAccessorsAndDuplicates(t *testing.T) {
	a := NewAggregator("")
	msgs := decodeAll(t, rmcLine, txtLine, rmcLine)
	for _, m := range msgs {
		a.Add(m)
	}
	frame := a.Close()

	if got := len(frame.RMC()); got != 2 {
		t.Errorf("RMC count = %d, want duplicates preserved (2)", got)
	}
	if got := len(frame.TXT()); got != 1 {
		t.Errorf("TXT count = %d, want 1", got)
	}
	if got := len(frame.GGA()); got != 0 {
		t.Errorf("GGA count = %d, want 0", got)
	}
	if got := len(frame.Get("RMC")); got != 2 {
		t.Errorf("Get(RMC) = %d records, want 2", got)
	}
	if frame.Received.IsZero() || time.Since(frame.Received) < 0 {
		t.Error("frame should carry a receipt timestamp")
	}
}
