package nmea

import (
	"testing"

	gonmea "github.com/adrianmo/go-nmea"
)

// Differential check of the coordinate and checksum handling against
// the go-nmea reference parser on correctly checksummed sentences.
func TestDecodeMatchesReferenceParser(t *testing.T) {
	lines := []string{
		refGGAChecksummed,
		refRMC,
	}

	d := NewDecoder(true)
	for _, line := range lines {
		ref, err := gonmea.Parse(line)
		if err != nil {
			t.Fatalf("reference parser rejected %q: %v", line, err)
		}

		msg := d.Decode(line)
		if msg == nil {
			t.Fatalf("decoder dropped %q that the reference parser accepts", line)
		}

		var lat, lon Float
		switch m := msg.(type) {
		case GGA:
			lat, lon = m.Lat, m.Lon
		case RMC:
			lat, lon = m.Lat, m.Lon
		default:
			t.Fatalf("unexpected record type %T for %q", msg, line)
		}

		var refLat, refLon float64
		switch m := ref.(type) {
		case gonmea.GGA:
			refLat, refLon = m.Latitude, m.Longitude
		case gonmea.RMC:
			refLat, refLon = m.Latitude, m.Longitude
		default:
			t.Fatalf("unexpected reference type %T for %q", ref, line)
		}

		if !lat.Valid || !almostEqual(lat.Value, refLat) {
			t.Errorf("%q: lat %+v, reference %v", line, lat, refLat)
		}
		if !lon.Valid || !almostEqual(lon.Value, refLon) {
			t.Errorf("%q: lon %+v, reference %v", line, lon, refLon)
		}
	}
}
