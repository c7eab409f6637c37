package gps

// KnotsToMPS converts speed over ground from knots to meters/second.
const KnotsToMPS = 0.5144444444444444

// Fix is one combined epoch result suitable for JSON and MQTT.
//
// Every group carries its own validity flag; when a group's source
// sentence was absent or unusable the flag is false and the values are
// zero. That zero-default is a publishing policy of this record only;
// inside the decoder absent fields stay distinct from zero.
type Fix struct {
	Timestamp int64 `json:"timestamp"` // capture time, ns since Unix epoch
	Epoch     int64 `json:"epoch"`     // epoch id the fix belongs to

	// Local planar frame (UTM offset from the origin).
	LocalValid bool    `json:"local_valid"`
	LocalX     float64 `json:"local_x"` // meters east of origin
	LocalY     float64 `json:"local_y"` // meters north of origin

	// Primary fix (first GGA of the epoch).
	FixValid   bool    `json:"fix_valid"`
	Lat        float64 `json:"lat"`     // decimal degrees
	Lon        float64 `json:"lon"`     // decimal degrees
	Quality    int     `json:"quality"` // GGA fix quality
	Satellites int     `json:"sats"`
	HDOP       float64 `json:"hdop"`
	Altitude   float64 `json:"alt_m"`
	GeoidSep   float64 `json:"geoid_m"`

	// Minimum navigation data (first RMC of the epoch).
	NavValid  bool    `json:"nav_valid"`
	SpeedMPS  float64 `json:"speed_mps"`
	CourseDeg float64 `json:"course_deg"`
}
