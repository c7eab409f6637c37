// Package epoch groups decoded NMEA sentences into epochs. An epoch is
// everything received between two occurrences of the rollover sentence
// kind, which is the fix-defining GGA by default.
package epoch

import (
	"time"

	"github.com/likesweetie/zed-f9r-parser/internal/nmea"
)

// Frame holds the sentences of one epoch. It is mutable while open
// inside the Aggregator and must be treated as an immutable snapshot
// once closed.
type Frame struct {
	ID       int64
	Received time.Time

	byTag map[string][]nmea.Message
	seq   []nmea.Message // arrival order across all kinds
}

func newFrame(id int64, received time.Time) *Frame {
	return &Frame{
		ID:       id,
		Received: received,
		byTag:    make(map[string][]nmea.Message),
	}
}

func (f *Frame) add(m nmea.Message) {
	tag := m.Base().Tag
	f.byTag[tag] = append(f.byTag[tag], m)
	f.seq = append(f.seq, m)
}

// Get returns the records of one sentence kind in arrival order.
func (f *Frame) Get(tag string) []nmea.Message {
	return f.byTag[tag]
}

// All returns every record of the frame in arrival order.
func (f *Frame) All() []nmea.Message { return f.seq }

// Len reports the number of records in the frame.
func (f *Frame) Len() int { return len(f.seq) }

// GGA returns the frame's fix-data records.
func (f *Frame) GGA() []nmea.GGA {
	out := make([]nmea.GGA, 0, len(f.byTag["GGA"]))
	for _, m := range f.byTag["GGA"] {
		if g, ok := m.(nmea.GGA); ok {
			out = append(out, g)
		}
	}
	return out
}

// RMC returns the frame's recommended-minimum records.
func (f *Frame) RMC() []nmea.RMC {
	out := make([]nmea.RMC, 0, len(f.byTag["RMC"]))
	for _, m := range f.byTag["RMC"] {
		if r, ok := m.(nmea.RMC); ok {
			out = append(out, r)
		}
	}
	return out
}

// GSA returns the frame's satellite-status records.
func (f *Frame) GSA() []nmea.GSA {
	out := make([]nmea.GSA, 0, len(f.byTag["GSA"]))
	for _, m := range f.byTag["GSA"] {
		if g, ok := m.(nmea.GSA); ok {
			out = append(out, g)
		}
	}
	return out
}

// VTG returns the frame's course/speed records.
func (f *Frame) VTG() []nmea.VTG {
	out := make([]nmea.VTG, 0, len(f.byTag["VTG"]))
	for _, m := range f.byTag["VTG"] {
		if v, ok := m.(nmea.VTG); ok {
			out = append(out, v)
		}
	}
	return out
}

// GLL returns the frame's geographic-position records.
func (f *Frame) GLL() []nmea.GLL {
	out := make([]nmea.GLL, 0, len(f.byTag["GLL"]))
	for _, m := range f.byTag["GLL"] {
		if g, ok := m.(nmea.GLL); ok {
			out = append(out, g)
		}
	}
	return out
}

// TXT returns the frame's text records.
func (f *Frame) TXT() []nmea.TXT {
	out := make([]nmea.TXT, 0, len(f.byTag["TXT"]))
	for _, m := range f.byTag["TXT"] {
		if t, ok := m.(nmea.TXT); ok {
			out = append(out, t)
		}
	}
	return out
}

// DefaultRolloverTag is the sentence kind that rotates epochs.
const DefaultRolloverTag = "GGA"

// Aggregator buckets records into the open epoch and rotates epochs on
// the rollover kind. At most one epoch is open at a time. Epoch ids
// auto-increment from 1.
//
// Add auto-opens an epoch when none is open, so callers never have to
// call Begin first; Begin exists for callers who want the receipt
// timestamp anchored before the first record arrives.
type Aggregator struct {
	rollover string
	counter  int64
	cur      *Frame
	now      func() time.Time
}

// NewAggregator returns an aggregator rotating on rolloverTag; an empty
// tag selects DefaultRolloverTag.
func NewAggregator(rolloverTag string) *Aggregator {
	if rolloverTag == "" {
		rolloverTag = DefaultRolloverTag
	}
	return &Aggregator{rollover: rolloverTag, now: time.Now}
}

// Begin opens a new epoch and returns it. If an epoch is already open
// this is a no-op returning the open one; callers must Close first to
// rotate explicitly.
func (a *Aggregator) Begin() *Frame {
	if a.cur != nil {
		return a.cur
	}
	a.counter++
	a.cur = newFrame(a.counter, a.now())
	return a.cur
}

// Current returns the open epoch, or nil.
func (a *Aggregator) Current() *Frame { return a.cur }

// Close detaches and returns the open epoch, leaving none open. It
// returns nil when no epoch is open. The returned frame must not be
// mutated.
func (a *Aggregator) Close() *Frame {
	f := a.cur
	a.cur = nil
	return f
}

// Add appends a record to the open epoch, opening one first if needed.
//
// When the record's kind is the rollover kind, the current epoch is
// closed first (even if empty), a fresh epoch is opened, and the
// triggering record goes into the fresh epoch. The closed frame is
// returned; for every other record Add returns nil. This ordering is
// what ties a fix to the epoch it opens, not the one it closes.
func (a *Aggregator) Add(m nmea.Message) (closed *Frame) {
	if m.Base().Tag == a.rollover {
		closed = a.Close()
		a.Begin()
	} else if a.cur == nil {
		a.Begin()
	}
	a.cur.add(m)
	return closed
}
