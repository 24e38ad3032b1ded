// Package solar derives a daylight clamp for PV generation from the
// site's geographic coordinates, using solar-position astronomy rather
// than a fixed sunrise/sunset table.
package solar

import (
	"time"

	"github.com/sixdouglas/suncalc"
)

const datetimeFormat = "2006-01-02 15:04:05"

// Site is the geographic location a PV plate's generation is clamped
// against.
type Site struct {
	Latitude  float64
	Longitude float64
}

// Clamp reports whether the sun is above the horizon at initialDatetime,
// for use as entities.DaylightClamp. Timestamps that fail to parse are
// treated as daylight, so a malformed reading never silently zeroes a
// plate's generation.
func (s Site) Clamp(initialDatetime string) bool {
	t, err := time.Parse(datetimeFormat, initialDatetime)
	if err != nil {
		return true
	}
	times := suncalc.GetTimes(t, s.Latitude, s.Longitude)
	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	if t.Before(sunrise) || t.After(sunset) {
		return false
	}
	pos := suncalc.GetPosition(t, s.Latitude, s.Longitude)
	return pos.Altitude > 0
}
