package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTechnicalCharacteristics_Valid(t *testing.T) {
	csv := "Entity;Id;Magnitude;MagnitudeValue;MagnitudeUnits\n" +
		"battery;b1;nominal_energy;10;kWh\n" +
		"battery;b1;max_input_power;4;kW\n"
	rows, err := ParseTechnicalCharacteristics(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "battery", rows[0].EntityKind)
	assert.InDelta(t, 10, rows[0].Value, 1e-9)
}

func TestParseTechnicalCharacteristics_RejectsWrongHeader(t *testing.T) {
	_, err := ParseTechnicalCharacteristics(strings.NewReader("kind;id\nbattery;b1\n"))
	assert.Error(t, err)
}

func TestParseSeries_Valid(t *testing.T) {
	csv := "InitialDatetime;FinalDatetime;Magnitude;MagnitudeValue;MagnitudeUnits\n" +
		"2026-01-01 00:00:00;2026-01-01 00:15:00;max_output_power;6;kW\n"
	points, err := ParseSeries(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Len(t, points, 1)
	assert.Equal(t, "max_output_power", points[0].Magnitude)
	assert.InDelta(t, 6, points[0].Value, 1e-9)
}

func TestParseDrivers_SemicolonSeparated(t *testing.T) {
	csv := "surplus;consumption_rise;purchase_price_rise;consumption_low;generation_low;purchase_price_low;" +
		"send_to_batteries;charge_from_pods;get_from_batteries\n" +
		"1;0;0;0;0;0;1;0;0\n"
	rows, err := ParseDrivers(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.True(t, rows[0].Surplus)
	assert.True(t, rows[0].SendToBatteries)
	assert.False(t, rows[0].ChargeFromPods)
}

func TestParseDrivers_RejectsOutOfRangeBit(t *testing.T) {
	csv := "surplus;consumption_rise;purchase_price_rise;consumption_low;generation_low;purchase_price_low;" +
		"send_to_batteries;charge_from_pods;get_from_batteries\n" +
		"2;0;0;0;0;0;1;0;0\n"
	_, err := ParseDrivers(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseMeteo_ReplicatesEachHourFourTimes(t *testing.T) {
	payload := `{
		"hourly": {"time": ["2026-01-01T00:00", "2026-01-01T01:00"], "direct_radiation": [100, 200]},
		"hourly_units": {"direct_radiation": "WÂ/m2"}
	}`
	forecast, err := ParseMeteo(strings.NewReader(payload))
	assert.NoError(t, err)
	assert.Equal(t, "W/m2", forecast.DirectRadiationUnits())

	series, err := forecast.DirectRadiationSeries()
	assert.NoError(t, err)
	assert.Len(t, series, 8)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 100, series[i].ValueWm2, 1e-9)
	}
	for i := 4; i < 8; i++ {
		assert.InDelta(t, 200, series[i].ValueWm2, 1e-9)
	}
}
