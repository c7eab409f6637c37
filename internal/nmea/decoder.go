package nmea

import (
	"strconv"
	"strings"
)

// Checksum computes the NMEA checksum: XOR of every byte between the
// '$' and the '*' (both excluded).
func Checksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// ParseLatLon converts an NMEA coordinate ("ddmm.mmmm" latitude or
// "dddmm.mmmm" longitude, picked by the hemisphere letter) to decimal
// degrees, negated for S/W. Malformed or missing input yields an
// invalid Float, never an error.
func ParseLatLon(value, hemi string) Float {
	if value == "" || hemi == "" {
		return Float{}
	}
	if !strings.Contains(value, ".") {
		return Float{}
	}
	h := strings.ToUpper(hemi)
	degDigits := 3
	if h == "N" || h == "S" {
		degDigits = 2
	}
	if len(value) < degDigits {
		return Float{}
	}
	deg, err := strconv.Atoi(value[:degDigits])
	if err != nil {
		return Float{}
	}
	minutes, err := strconv.ParseFloat(value[degDigits:], 64)
	if err != nil {
		return Float{}
	}
	dec := float64(deg) + minutes/60.0
	if h == "S" || h == "W" {
		dec = -dec
	}
	return Float{Value: dec, Valid: true}
}

func toFloat(s string) Float {
	if s == "" {
		return Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Float{}
	}
	return Float{Value: v, Valid: true}
}

func toInt(s string) Int {
	if s == "" {
		return Int{}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Int{}
	}
	return Int{Value: v, Valid: true}
}

// pad returns fields extended with empty strings to exactly n entries.
// Trailing optional fields are routinely omitted on the wire.
func pad(fields []string, n int) []string {
	if len(fields) >= n {
		return fields[:n]
	}
	out := make([]string, n)
	copy(out, fields)
	return out
}

// ParserFunc builds a typed record from the common sentence parts.
// The fields in s.Fields are the comma-separated values after the
// header field.
type ParserFunc func(s Sent) Message

// Decoder validates one sentence line at a time and dispatches it to a
// kind-specific parser. Malformed lines are dropped silently; only a
// drop counter records them.
//
// The parser registry and the alias table are mutable: callers may
// register parsers for proprietary kinds or map a vendor tag onto an
// existing layout (e.g. GCC -> GGA). The last registration for a tag
// wins. Aliases affect which parser runs; the record keeps the tag as
// transmitted.
type Decoder struct {
	verifyChecksum bool
	parsers        map[string]ParserFunc
	aliases        map[string]string
	dropped        uint64
}

// NewDecoder returns a decoder with the standard GGA, GSA, RMC, VTG,
// GLL and TXT parsers registered.
func NewDecoder(verifyChecksum bool) *Decoder {
	d := &Decoder{
		verifyChecksum: verifyChecksum,
		parsers:        make(map[string]ParserFunc),
		aliases:        make(map[string]string),
	}
	d.RegisterParser("GGA", parseGGA)
	d.RegisterParser("GSA", parseGSA)
	d.RegisterParser("RMC", parseRMC)
	d.RegisterParser("VTG", parseVTG)
	d.RegisterParser("GLL", parseGLL)
	d.RegisterParser("TXT", parseTXT)
	return d
}

// RegisterParser registers or overrides the parser for a sentence kind.
func (d *Decoder) RegisterParser(tag string, fn ParserFunc) {
	d.parsers[tag] = fn
}

// RegisterAlias parses sentences tagged tag with the parser registered
// for target, while records keep the original tag.
func (d *Decoder) RegisterAlias(tag, target string) {
	d.aliases[tag] = target
}

// Dropped reports how many lines were discarded as malformed or
// checksum-invalid.
func (d *Decoder) Dropped() uint64 { return d.dropped }

// Decode parses one sentence line. It returns nil for anything that is
// not a well-formed sentence: wrong marker, bad grammar, checksum
// mismatch (when verification is on), or a header shorter than five
// characters. It never returns an error; protocol garbage is expected.
func (d *Decoder) Decode(line string) Message {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != startMarker {
		return nil
	}

	body := line[1:]
	declared := ""
	if i := strings.IndexByte(body, '*'); i >= 0 {
		declared = body[i+1:]
		body = body[:i]
		if len(declared) != 2 || !isHex(declared[0]) || !isHex(declared[1]) {
			d.dropped++
			return nil
		}
	}
	if body == "" {
		d.dropped++
		return nil
	}

	status := ChecksumNotChecked
	if d.verifyChecksum && declared != "" {
		want, _ := strconv.ParseUint(declared, 16, 8)
		if Checksum(body) != byte(want) {
			d.dropped++
			return nil
		}
		status = ChecksumOK
	}

	parts := strings.Split(body, ",")
	header := parts[0]
	if len(header) < 5 {
		d.dropped++
		return nil
	}

	s := Sent{
		Talker:   header[:2],
		Tag:      header[2:],
		Raw:      line,
		Fields:   parts[1:],
		Checksum: status,
	}

	parseTag := s.Tag
	if target, ok := d.aliases[parseTag]; ok {
		parseTag = target
	}
	parser, ok := d.parsers[parseTag]
	if !ok {
		return Generic{Sent: s}
	}
	return parser(s)
}

func isHex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// Sentence field layouts below are fixed-position, zero-indexed after
// the header field, padded with empty strings to the documented width.

func parseGGA(s Sent) Message {
	f := pad(s.Fields, 14)
	return GGA{
		Sent:     s,
		Time:     f[0],
		Lat:      ParseLatLon(f[1], f[2]),
		Lon:      ParseLatLon(f[3], f[4]),
		Quality:  toInt(f[5]),
		NumSats:  toInt(f[6]),
		HDOP:     toFloat(f[7]),
		Altitude: toFloat(f[8]),
		GeoidSep: toFloat(f[10]),
	}
}

func parseGSA(s Sent) Message {
	f := pad(s.Fields, 17)
	var prns []int
	for _, x := range f[2:14] {
		if v := toInt(x); v.Valid {
			prns = append(prns, v.Value)
		}
	}
	return GSA{
		Sent:    s,
		Mode:    f[0],
		FixType: toInt(f[1]),
		SatPRNs: prns,
		PDOP:    toFloat(f[14]),
		HDOP:    toFloat(f[15]),
		VDOP:    toFloat(f[16]),
	}
}

func parseRMC(s Sent) Message {
	f := pad(s.Fields, 12)
	return RMC{
		Sent:       s,
		Time:       f[0],
		Status:     f[1],
		Lat:        ParseLatLon(f[2], f[3]),
		Lon:        ParseLatLon(f[4], f[5]),
		SpeedKnots: toFloat(f[6]),
		CourseDeg:  toFloat(f[7]),
		Date:       f[8],
	}
}

func parseVTG(s Sent) Message {
	f := pad(s.Fields, 9)
	return VTG{
		Sent:       s,
		TrueTrack:  toFloat(f[0]),
		MagTrack:   toFloat(f[2]),
		SpeedKnots: toFloat(f[4]),
		SpeedKMH:   toFloat(f[6]),
	}
}

func parseGLL(s Sent) Message {
	f := pad(s.Fields, 7)
	return GLL{
		Sent:   s,
		Lat:    ParseLatLon(f[0], f[1]),
		Lon:    ParseLatLon(f[2], f[3]),
		Time:   f[4],
		Status: f[5],
	}
}

func parseTXT(s Sent) Message {
	f := pad(s.Fields, 4)
	return TXT{
		Sent:   s,
		Total:  toInt(f[0]),
		Number: toInt(f[1]),
		TextID: toInt(f[2]),
		Text:   f[3],
	}
}
