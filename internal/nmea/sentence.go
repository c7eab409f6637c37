// Package nmea reassembles and decodes NMEA 0183 sentences from a GNSS
// receiver byte stream. The framer turns arbitrary byte chunks into
// terminated lines; the decoder turns lines into typed records.
package nmea

// Float is a float64 field that distinguishes "absent in the sentence"
// from zero. Many NMEA fields are optional and transmitted empty.
type Float struct {
	Value float64
	Valid bool
}

// Int is the integer counterpart of Float.
type Int struct {
	Value int
	Valid bool
}

// ChecksumStatus records the outcome of checksum verification for a
// decoded sentence. A mismatching checksum drops the line, so decoded
// records only ever carry NotChecked (verification off, or no checksum
// transmitted) or OK.
type ChecksumStatus int

const (
	ChecksumNotChecked ChecksumStatus = iota
	ChecksumOK
)

// Sent holds the parts common to every decoded sentence.
type Sent struct {
	Talker   string // two-character talker id, e.g. "GN"
	Tag      string // sentence kind as transmitted, e.g. "GGA"
	Raw      string // full line without the trailing terminator
	Fields   []string
	Checksum ChecksumStatus
}

// Base returns the common sentence parts; it makes every record type
// satisfy Message.
func (s Sent) Base() Sent { return s }

// FullTag returns talker plus kind, e.g. "GNGGA".
func (s Sent) FullTag() string { return s.Talker + s.Tag }

// Message is any decoded sentence record.
type Message interface {
	Base() Sent
}

// GGA is the fix-data sentence: time, position, fix quality, satellite
// count, dilution, altitude and geoid separation.
type GGA struct {
	Sent
	Time     string
	Lat      Float // decimal degrees, negative south
	Lon      Float // decimal degrees, negative west
	Quality  Int
	NumSats  Int
	HDOP     Float
	Altitude Float // meters
	GeoidSep Float // meters
}

// GSA reports the active satellite set and dilution of precision.
type GSA struct {
	Sent
	Mode     string
	FixType  Int
	SatPRNs  []int // up to 12, absent slots skipped
	PDOP     Float
	HDOP     Float
	VDOP     Float
}

// RMC is the recommended-minimum sentence: position, speed over ground
// in knots, course over ground and date.
type RMC struct {
	Sent
	Time       string
	Status     string // "A" valid, "V" void
	Lat        Float
	Lon        Float
	SpeedKnots Float
	CourseDeg  Float
	Date       string // ddmmyy
}

// VTG carries course over ground and ground speed.
type VTG struct {
	Sent
	TrueTrack  Float
	MagTrack   Float
	SpeedKnots Float
	SpeedKMH   Float
}

// GLL is the geographic position sentence.
type GLL struct {
	Sent
	Lat    Float
	Lon    Float
	Time   string
	Status string
}

// TXT is the free-text sentence receivers use for status output.
type TXT struct {
	Sent
	Total  Int
	Number Int
	TextID Int
	Text   string
}

// Generic is the fallback record for sentence kinds without a
// registered parser. It keeps the raw text and split fields so callers
// can still classify or log the sentence.
type Generic struct {
	Sent
}
