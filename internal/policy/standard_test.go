package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energy_dispatch/internal/entities"
)

func buildManager(t *testing.T, rows []entities.TechnicalCharacteristicRow) *entities.EntitiesManager {
	t.Helper()
	em, err := entities.NewEntitiesManager(rows)
	assert.NoError(t, err)
	return em
}

func quarterHourSeries(n int, value float64, units string) []entities.SeriesPoint {
	points := make([]entities.SeriesPoint, n)
	for i := 0; i < n; i++ {
		points[i] = entities.SeriesPoint{
			InitialDatetime: intervalTimestamp(i),
			FinalDatetime:   intervalTimestamp(i + 1),
			Value:           value,
			Units:           units,
		}
	}
	return points
}

func intervalTimestamp(i int) string {
	base, _ := stepDatetime("2026-01-01 00:00:00", float64(i)*0.25)
	return base
}

// TestStandardPolicy_BatteryEmptyDrawsFromGrid covers spec scenario E1:
// an empty battery and a constant 1 kWh/interval load draws the full
// deficit from the grid, accruing the expected purchase cost.
func TestStandardPolicy_BatteryEmptyDrawsFromGrid(t *testing.T) {
	em := buildManager(t, []entities.TechnicalCharacteristicRow{
		{EntityKind: "battery", EntityID: "b1", Magnitude: "nominal_energy", Value: 10, Units: "kWh"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_input_power", Value: 4, Units: "kW"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_output_power", Value: 4, Units: "kW"},
		{EntityKind: "point_of_grid_delivery", EntityID: "pod1", Magnitude: "max_input_power", Value: 5, Units: "kW"},
		{EntityKind: "point_of_consumption", EntityID: "poc1", Magnitude: "n/a", Value: 0, Units: ""},
	})
	pod, _ := em.Pod("pod1")
	pod.UpdateMaxOutputPower(quarterHourSeries(5, 5, "kW"))
	pod.UpdatePurchasePrices(quarterHourSeries(5, 0.2, "€/kWh"))
	pod.UpdateSalePrice(entities.NewMeasurement(0.1, "€/kWh"))
	poc, _ := em.Poc("poc1")
	poc.UpdateConsumption(quarterHourSeries(5, 1, "kWh"))

	sp := NewStandardPolicy(em)
	err := sp.Simulate(intervalTimestamp(0), intervalTimestamp(3), 0.25)
	assert.NoError(t, err)

	entry, ok := pod.FlowedPower().Get(intervalTimestamp(0))
	assert.True(t, ok)
	assert.InDelta(t, 4, entry.Value, 1e-9, "whole 4 kW deficit must be imported from the grid")
}

// TestStandardPolicy_PVCoversConsumption_ZeroEverything covers spec
// scenario E2: PV generation exactly offsets consumption, so no asset's
// ledger moves.
func TestStandardPolicy_PVCoversConsumption_ZeroEverything(t *testing.T) {
	em := buildManager(t, []entities.TechnicalCharacteristicRow{
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "surface", Value: 1, Units: "m2"},
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "efficiency", Value: 100, Units: "%"},
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "max_output_power", Value: 10, Units: "kW"},
		{EntityKind: "point_of_grid_delivery", EntityID: "pod1", Magnitude: "max_input_power", Value: 5, Units: "kW"},
		{EntityKind: "point_of_consumption", EntityID: "poc1", Magnitude: "n/a", Value: 0, Units: ""},
	})
	pv, _ := em.Photovoltaic("pv1")
	radiation := make([]entities.DirectRadiationPoint, 2)
	for i := range radiation {
		radiation[i] = entities.DirectRadiationPoint{InitialDatetime: intervalTimestamp(i), FinalDatetime: intervalTimestamp(i + 1), ValueWm2: 4000}
	}
	pv.UpdateGeneration(radiation, nil)

	pod, _ := em.Pod("pod1")
	pod.UpdateMaxOutputPower(quarterHourSeries(2, 5, "kW"))
	pod.UpdatePurchasePrices(quarterHourSeries(2, 0.2, "€/kWh"))
	pod.UpdateSalePrice(entities.NewMeasurement(0.1, "€/kWh"))
	poc, _ := em.Poc("poc1")
	poc.UpdateConsumption(quarterHourSeries(2, 1, "kWh"))

	sp := NewStandardPolicy(em)
	err := sp.Simulate(intervalTimestamp(0), intervalTimestamp(0), 0.25)
	assert.NoError(t, err)

	entry, ok := pod.FlowedPower().Get(intervalTimestamp(0))
	assert.True(t, ok)
	assert.InDelta(t, 0, entry.Value, 1e-9)
}

// TestStandardPolicy_SurplusChargesBatteryFirst covers spec scenario E3:
// a PV surplus charges an empty battery up to its MaxInputPower ceiling
// before anything reaches the grid.
func TestStandardPolicy_SurplusChargesBatteryFirst(t *testing.T) {
	em := buildManager(t, []entities.TechnicalCharacteristicRow{
		{EntityKind: "battery", EntityID: "b1", Magnitude: "nominal_energy", Value: 10, Units: "kWh"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_input_power", Value: 4, Units: "kW"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_output_power", Value: 4, Units: "kW"},
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "surface", Value: 1, Units: "m2"},
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "efficiency", Value: 100, Units: "%"},
		{EntityKind: "photovoltaic_plate", EntityID: "pv1", Magnitude: "max_output_power", Value: 10, Units: "kW"},
		{EntityKind: "point_of_grid_delivery", EntityID: "pod1", Magnitude: "max_input_power", Value: 5, Units: "kW"},
		{EntityKind: "point_of_consumption", EntityID: "poc1", Magnitude: "n/a", Value: 0, Units: ""},
	})
	pv, _ := em.Photovoltaic("pv1")
	pv.UpdateGeneration([]entities.DirectRadiationPoint{
		{InitialDatetime: intervalTimestamp(0), FinalDatetime: intervalTimestamp(1), ValueWm2: 8000},
	}, nil)
	pod, _ := em.Pod("pod1")
	pod.UpdateMaxOutputPower(quarterHourSeries(1, 5, "kW"))
	pod.UpdatePurchasePrices(quarterHourSeries(1, 0.2, "€/kWh"))
	pod.UpdateSalePrice(entities.NewMeasurement(0.1, "€/kWh"))
	poc, _ := em.Poc("poc1")
	poc.UpdateConsumption(quarterHourSeries(1, 1, "kWh"))

	sp := NewStandardPolicy(em)
	err := sp.Simulate(intervalTimestamp(0), intervalTimestamp(0), 0.25)
	assert.NoError(t, err)

	b, _ := em.Battery("b1")
	assert.InDelta(t, 4*entities.TimeLapse, b.Energy.Value, 1e-9, "battery should have absorbed the full 4 kW surplus, capped by its MaxInputPower")

	podEntry, ok := pod.FlowedPower().Get(intervalTimestamp(0))
	assert.True(t, ok)
	assert.InDelta(t, 0, podEntry.Value, 1e-9, "surplus fully absorbed by the battery, none left for export")
}
