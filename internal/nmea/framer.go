package nmea

import (
	"strings"
	"unicode/utf8"
)

const (
	terminator    = 0x0A // line feed ends every sentence
	startMarker   = '$'
	defaultFiller = 0xFF // DDC idle padding on u-blox receivers
)

// FramerConfig selects the framing policy.
type FramerConfig struct {
	// DropFiller discards every occurrence of Filler before buffering.
	// The ZED-F9R DDC port pads idle reads with 0xFF.
	DropFiller bool
	// Filler is the padding byte; zero means 0xFF.
	Filler byte
	// SyncOnStart ignores bytes until a '$' is seen instead of blindly
	// accumulating. More robust against joining a stream mid-sentence.
	SyncOnStart bool
	// MaxLineBytes caps the internal buffer. When exceeded the buffer
	// is discarded and input is skipped until the next terminator
	// (discard-and-resync). Zero means unbounded.
	MaxLineBytes int
}

// Framer reassembles terminated sentence lines from arbitrary byte
// chunks. It never fails; content validation is the decoder's job.
type Framer struct {
	cfg      FramerConfig
	buf      []byte
	synced   bool // only meaningful with SyncOnStart
	skipping bool // discarding until next terminator after overflow
}

// NewFramer returns a framer with the given policy.
func NewFramer(cfg FramerConfig) *Framer {
	if cfg.Filler == 0 {
		cfg.Filler = defaultFiller
	}
	return &Framer{cfg: cfg}
}

// Push appends a chunk and returns every line completed by it, without
// the trailing terminator. A trailing partial line stays buffered for
// the next chunk.
func (f *Framer) Push(chunk []byte) []string {
	var lines []string
	for _, b := range chunk {
		if f.cfg.DropFiller && b == f.cfg.Filler {
			continue
		}
		if f.skipping {
			if b == terminator {
				f.skipping = false
				f.synced = false
			}
			continue
		}
		if f.cfg.SyncOnStart && !f.synced {
			if b != startMarker {
				continue
			}
			f.synced = true
		}
		if b == terminator {
			lines = append(lines, asciiString(f.buf))
			f.buf = f.buf[:0]
			f.synced = false
			continue
		}
		f.buf = append(f.buf, b)
		if f.cfg.MaxLineBytes > 0 && len(f.buf) > f.cfg.MaxLineBytes {
			f.buf = f.buf[:0]
			f.skipping = true
		}
	}
	return lines
}

// Pending returns the number of buffered bytes of the current partial
// line.
func (f *Framer) Pending() int { return len(f.buf) }

// Reset drops any buffered partial line.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
	f.synced = false
	f.skipping = false
}

// asciiString decodes b as ASCII, substituting U+FFFD for any byte
// outside the 7-bit range rather than failing.
func asciiString(b []byte) string {
	clean := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			clean = false
			break
		}
	}
	if clean {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < utf8.RuneSelf {
			sb.WriteByte(c)
		} else {
			sb.WriteRune(utf8.RuneError)
		}
	}
	return sb.String()
}
