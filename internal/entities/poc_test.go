package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointOfConsumption_GetConsumption(t *testing.T) {
	poc := NewPointOfConsumption("poc1")
	poc.UpdateConsumption([]SeriesPoint{
		{InitialDatetime: "t0", FinalDatetime: "t1", Value: 1.2, Units: "kWh"},
	})

	consumption, err := poc.GetConsumption("t0")
	assert.NoError(t, err)
	assert.InDelta(t, 1.2, consumption.Value, 1e-9)
}

func TestPointOfConsumption_GetConsumption_MisalignedTimestamp(t *testing.T) {
	poc := NewPointOfConsumption("poc1")
	poc.UpdateConsumption([]SeriesPoint{{InitialDatetime: "t0", FinalDatetime: "t1", Value: 1, Units: "kWh"}})

	_, err := poc.GetConsumption("missing")
	assert.Error(t, err)
}
