package gps

import (
	"github.com/likesweetie/zed-f9r-parser/internal/epoch"
	"github.com/likesweetie/zed-f9r-parser/internal/nmea"
	"github.com/likesweetie/zed-f9r-parser/internal/utm"
)

// PipelineConfig collects the knobs of the receive pipeline.
type PipelineConfig struct {
	// VerifyChecksum drops sentences whose declared checksum mismatches.
	VerifyChecksum bool
	// DropFiller discards 0xFF idle padding before framing (DDC reads).
	DropFiller bool
	// SyncOnStart frames by synchronizing on '$' instead of blind
	// accumulation (recommended for serial transports).
	SyncOnStart bool
	// MaxLineBytes caps the framer buffer; zero means unbounded.
	MaxLineBytes int
	// FixedZone forces every UTM projection into one zone; zero derives
	// the zone from the longitude of each point.
	FixedZone int
	// RolloverTag rotates epochs; empty selects epoch.DefaultRolloverTag.
	RolloverTag string
}

// Pipeline ties framer, decoder, epoch aggregator and coordinate
// converter together: bytes in, packed fixes out.
//
// The local-frame origin is anchored at the first epoch with a usable
// GGA position. The most recent conversion stays readable through
// LastConversion; there is no callback interface.
//
// A Pipeline is not safe for concurrent use. Feed it from one
// goroutine and hand the returned fixes (immutable values) to others.
type Pipeline struct {
	framer *nmea.Framer
	dec    *nmea.Decoder
	agg    *epoch.Aggregator
	conv   *utm.Converter

	last    *Conversion
	hasLast bool
}

// NewPipeline builds a pipeline with the standard sentence parsers
// registered.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	return &Pipeline{
		framer: nmea.NewFramer(nmea.FramerConfig{
			DropFiller:   cfg.DropFiller,
			SyncOnStart:  cfg.SyncOnStart,
			MaxLineBytes: cfg.MaxLineBytes,
		}),
		dec:  nmea.NewDecoder(cfg.VerifyChecksum),
		agg:  epoch.NewAggregator(cfg.RolloverTag),
		conv: utm.NewConverter(cfg.FixedZone),
	}
}

// Decoder exposes the sentence decoder so callers can register
// proprietary parsers or tag aliases before feeding data.
func (p *Pipeline) Decoder() *nmea.Decoder { return p.dec }

// Feed pushes one byte chunk through the pipeline and returns the
// packed fix of every epoch the chunk closed (usually none or one).
func (p *Pipeline) Feed(chunk []byte) []Fix {
	var fixes []Fix
	for _, line := range p.framer.Push(chunk) {
		msg := p.dec.Decode(line)
		if msg == nil {
			continue
		}
		if closed := p.agg.Add(msg); closed != nil {
			fixes = append(fixes, p.finish(closed))
		}
	}
	return fixes
}

// Flush closes the open epoch, if any, and returns its packed fix.
// Useful at shutdown; during normal operation epochs close themselves
// on rollover.
func (p *Pipeline) Flush() (Fix, bool) {
	closed := p.agg.Close()
	if closed == nil || closed.Len() == 0 {
		return Fix{}, false
	}
	return p.finish(closed), true
}

// LastConversion returns the most recent local-frame conversion.
func (p *Pipeline) LastConversion() (Conversion, bool) {
	if !p.hasLast {
		return Conversion{}, false
	}
	return *p.last, true
}

// finish converts the closed frame's primary fix into the local frame
// (anchoring the origin on first use) and packs the outbound record.
func (p *Pipeline) finish(frame *epoch.Frame) Fix {
	if conv := p.convert(frame); conv != nil {
		p.last = conv
		p.hasLast = true
	}
	return Pack(frame, p.last)
}

func (p *Pipeline) convert(frame *epoch.Frame) *Conversion {
	ggas := frame.GGA()
	if len(ggas) == 0 {
		return nil
	}
	gga := ggas[0]
	if !gga.Lat.Valid || !gga.Lon.Valid {
		return nil
	}

	lat, lon := gga.Lat.Value, gga.Lon.Value
	p.conv.SetOrigin(lat, lon) // first valid fix wins, later calls no-op
	x, y, err := p.conv.ToLocal(lat, lon)
	if err != nil {
		return nil
	}
	return &Conversion{
		Epoch:    frame.ID,
		Received: frame.Received,
		X:        x,
		Y:        y,
		Lat:      lat,
		Lon:      lon,
	}
}
