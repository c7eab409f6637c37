// Package utm converts WGS84 geodetic coordinates to UTM planar
// coordinates and produces local metric XY offsets against an origin.
//
// The projection is the closed-form transverse Mercator series. The
// Norway/Svalbard zone exceptions are deliberately not applied; for
// local navigation frames they never matter and fixed-zone operation
// avoids zone seams entirely.
package utm

import (
	"errors"
	"math"
)

// WGS84 ellipsoid and UTM grid parameters.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0 // southern hemisphere only
)

// first eccentricity squared
const e2 = flattening * (2.0 - flattening)

// ErrOriginNotSet is returned by ToLocal before an origin exists. It
// signals a call-sequence bug, not a runtime condition to retry.
var ErrOriginNotSet = errors.New("utm: origin not set")

// Coord is a projected UTM coordinate in meters.
type Coord struct {
	Easting  float64
	Northing float64
	Zone     int
	North    bool // true on or north of the equator
}

// ZoneFromLon derives the UTM zone (1..60) from a longitude in
// degrees, clamping the +180 boundary into zone 60.
func ZoneFromLon(lon float64) int {
	if lon == 180.0 {
		lon = 179.999999
	}
	return int(math.Floor((lon+180.0)/6.0)) + 1
}

// Project converts latitude/longitude in degrees to UTM. A zone of
// zero (or less) derives the zone from the longitude; a positive zone
// forces projection into that zone regardless of longitude.
func Project(latDeg, lonDeg float64, zone int) Coord {
	if zone <= 0 {
		zone = ZoneFromLon(lonDeg)
	}
	north := latDeg >= 0.0

	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	lon0 := float64((zone-1)*6-180+3) * math.Pi / 180.0

	ep2 := e2 / (1.0 - e2)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := semiMajorAxis / math.Sqrt(1.0-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lon - lon0)

	// Meridional arc from the equator to lat.
	m := semiMajorAxis * ((1.0-e2/4.0-3.0*e2*e2/64.0-5.0*e2*e2*e2/256.0)*lat -
		(3.0*e2/8.0+3.0*e2*e2/32.0+45.0*e2*e2*e2/1024.0)*math.Sin(2.0*lat) +
		(15.0*e2*e2/256.0+45.0*e2*e2*e2/1024.0)*math.Sin(4.0*lat) -
		(35.0*e2*e2*e2/3072.0)*math.Sin(6.0*lat))

	easting := scaleFactor*n*(a+
		(1.0-t+c)*a*a*a/6.0+
		(5.0-18.0*t+t*t+72.0*c-58.0*ep2)*a*a*a*a*a/120.0) + falseEasting

	northing := scaleFactor * (m + n*tanLat*(a*a/2.0+
		(5.0-t+9.0*c+4.0*c*c)*a*a*a*a/24.0+
		(61.0-58.0*t+t*t+600.0*c-330.0*ep2)*a*a*a*a*a*a/720.0))

	if !north {
		northing += falseNorthing
	}

	return Coord{Easting: easting, Northing: northing, Zone: zone, North: north}
}

// Converter projects positions and anchors them to a local origin.
//
// The origin is set at most once: the first SetOrigin wins and later
// calls are silently ignored, so feeding every fix through SetOrigin
// pins the frame to the first one. Local XY for all subsequent points
// is computed in the origin's zone to keep the frame seam-free.
type Converter struct {
	fixedZone int
	origin    *Coord
}

// NewConverter returns a converter. fixedZone > 0 forces every
// projection into that zone (recommended for local operation);
// fixedZone 0 derives the zone from each point's longitude.
func NewConverter(fixedZone int) *Converter {
	return &Converter{fixedZone: fixedZone}
}

// Project converts a position using the converter's zone policy.
func (c *Converter) Project(latDeg, lonDeg float64) Coord {
	return Project(latDeg, lonDeg, c.fixedZone)
}

// SetOrigin anchors the local frame at the given position. Only the
// first call has an effect.
func (c *Converter) SetOrigin(latDeg, lonDeg float64) {
	if c.origin != nil {
		return
	}
	o := Project(latDeg, lonDeg, c.fixedZone)
	c.origin = &o
}

// OriginSet reports whether an origin has been anchored.
func (c *Converter) OriginSet() bool { return c.origin != nil }

// Origin returns the anchored origin coordinate.
func (c *Converter) Origin() (Coord, bool) {
	if c.origin == nil {
		return Coord{}, false
	}
	return *c.origin, true
}

// ToLocal returns the position's easting/northing offset from the
// origin in meters (x east, y north). The point is projected in the
// origin's zone, not in a zone derived from its own longitude.
func (c *Converter) ToLocal(latDeg, lonDeg float64) (x, y float64, err error) {
	if c.origin == nil {
		return 0, 0, ErrOriginNotSet
	}
	cur := Project(latDeg, lonDeg, c.origin.Zone)
	return cur.Easting - c.origin.Easting, cur.Northing - c.origin.Northing, nil
}
