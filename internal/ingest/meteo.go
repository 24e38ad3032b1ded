package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"energy_dispatch/internal/entities"
)

const meteoDatetimeFormat = "2006-01-02T15:04"
const simDatetimeFormat = "2006-01-02 15:04:05"

// MeteoForecast is the Open-Meteo-shaped hourly forecast payload this
// engine reads direct radiation from.
type MeteoForecast struct {
	Hourly struct {
		Time            []string  `json:"time"`
		DirectRadiation []float64 `json:"direct_radiation"`
	} `json:"hourly"`
	HourlyUnits struct {
		DirectRadiation string `json:"direct_radiation"`
	} `json:"hourly_units"`
}

// ParseMeteo decodes an hourly weather forecast JSON payload.
func ParseMeteo(r io.Reader) (*MeteoForecast, error) {
	var f MeteoForecast
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding meteo JSON: %w", err)
	}
	return &f, nil
}

// DirectRadiationSeries replicates each hourly direct_radiation reading
// across the four quarter-hour intervals it covers, matching the grid
// the rest of the simulation runs on. The source data carries a mangled
// "Â" character in some unit strings (an encoding artifact, not a typo
// in the forecast itself); it's stripped here rather than carried
// through to reports.
func (f *MeteoForecast) DirectRadiationSeries() ([]entities.DirectRadiationPoint, error) {
	if len(f.Hourly.Time) == 0 {
		return nil, &entities.ErrEmptyRange{Series: "direct_radiation"}
	}

	var points []entities.DirectRadiationPoint
	for i, ts := range f.Hourly.Time {
		hourStart, err := time.Parse(meteoDatetimeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing meteo timestamp %q: %w", ts, err)
		}
		value := f.Hourly.DirectRadiation[i]
		for q := 0; q < 4; q++ {
			start := hourStart.Add(time.Duration(q) * 15 * time.Minute)
			end := start.Add(15 * time.Minute)
			points = append(points, entities.DirectRadiationPoint{
				InitialDatetime: start.Format(simDatetimeFormat),
				FinalDatetime:   end.Format(simDatetimeFormat),
				ValueWm2:        value,
			})
		}
	}
	return points, nil
}

// DirectRadiationUnits returns the forecast's declared unit for
// direct_radiation with the encoding artifact stripped.
func (f *MeteoForecast) DirectRadiationUnits() string {
	return cleanUnits(f.HourlyUnits.DirectRadiation)
}

func cleanUnits(units string) string {
	return strings.ReplaceAll(units, "Â", "")
}
