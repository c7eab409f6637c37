package gps

import (
	"time"

	"github.com/likesweetie/zed-f9r-parser/internal/epoch"
)

// Conversion is the local-frame result of one closed epoch.
type Conversion struct {
	Epoch    int64
	Received time.Time
	X, Y     float64 // meters relative to the origin
	Lat, Lon float64 // source position, decimal degrees
}

// Pack builds the outbound Fix for a closed epoch frame. conv may be
// nil; it only counts when its epoch id matches the frame, so a stale
// conversion from an earlier epoch is reported as "no local fix"
// rather than silently reused.
func Pack(frame *epoch.Frame, conv *Conversion) Fix {
	msg := Fix{
		Timestamp: time.Now().UnixNano(),
		Epoch:     frame.ID,
	}

	if conv != nil && conv.Epoch == frame.ID {
		msg.LocalValid = true
		msg.LocalX = conv.X
		msg.LocalY = conv.Y
	}

	if ggas := frame.GGA(); len(ggas) > 0 {
		gga := ggas[0]
		if gga.Lat.Valid && gga.Lon.Valid {
			msg.FixValid = true
			msg.Lat = gga.Lat.Value
			msg.Lon = gga.Lon.Value
			msg.Quality = gga.Quality.Value
			msg.Satellites = gga.NumSats.Value
			msg.HDOP = gga.HDOP.Value
			msg.Altitude = gga.Altitude.Value
			msg.GeoidSep = gga.GeoidSep.Value
		}
	}

	if rmcs := frame.RMC(); len(rmcs) > 0 {
		rmc := rmcs[0]
		msg.NavValid = true
		if rmc.SpeedKnots.Valid {
			msg.SpeedMPS = rmc.SpeedKnots.Value * KnotsToMPS
		}
		msg.CourseDeg = rmc.CourseDeg.Value
	}

	return msg
}
