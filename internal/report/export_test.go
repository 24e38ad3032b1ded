package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energy_dispatch/internal/entities"
)

// TestExportAndCost_MatchesE1 reproduces spec scenario E1's numbers: a
// constant 1 kWh/interval load over 4 quarter-hour intervals, fully
// covered by grid import at 0.2 €/kWh, costs 0.80 €.
func TestExportAndCost_MatchesE1(t *testing.T) {
	em, err := entities.NewEntitiesManager([]entities.TechnicalCharacteristicRow{
		{EntityKind: "point_of_grid_delivery", EntityID: "pod1", Magnitude: "max_input_power", Value: 5, Units: "kW"},
		{EntityKind: "point_of_consumption", EntityID: "poc1", Magnitude: "n/a", Value: 0, Units: ""},
	})
	assert.NoError(t, err)

	pod, _ := em.Pod("pod1")
	poc, _ := em.Poc("poc1")

	dt := []string{"2026-01-01 00:00:00", "2026-01-01 00:15:00", "2026-01-01 00:30:00", "2026-01-01 00:45:00", "2026-01-01 01:00:00"}
	var maxOut, prices, consumption []entities.SeriesPoint
	for i := 0; i < 4; i++ {
		maxOut = append(maxOut, entities.SeriesPoint{InitialDatetime: dt[i], FinalDatetime: dt[i+1], Value: 5, Units: "kW"})
		prices = append(prices, entities.SeriesPoint{InitialDatetime: dt[i], FinalDatetime: dt[i+1], Value: 0.2, Units: "€/kWh"})
		consumption = append(consumption, entities.SeriesPoint{InitialDatetime: dt[i], FinalDatetime: dt[i+1], Value: 1, Units: "kWh"})
	}
	pod.UpdateMaxOutputPower(maxOut)
	pod.UpdatePurchasePrices(prices)
	pod.UpdateSalePrice(entities.NewMeasurement(0.1, "€/kWh"))
	poc.UpdateConsumption(consumption)

	for i := 0; i < 4; i++ {
		supplied, err := pod.SupplyPower(dt[i], dt[i+1], entities.NewMeasurement(4, "kW"))
		assert.NoError(t, err)
		assert.InDelta(t, 4, supplied.Value, 1e-9)
	}

	rows, err := Export(em, dt[0], dt[3], 0.25)
	assert.NoError(t, err)
	assert.NotEmpty(t, rows)

	cost, err := Cost(em, rows, 0.25)
	assert.NoError(t, err)
	assert.InDelta(t, 0.80, cost, 1e-9)
}
