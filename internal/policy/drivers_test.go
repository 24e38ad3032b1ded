package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energy_dispatch/internal/entities"
)

func TestDriverTable_LookupByActionFlag(t *testing.T) {
	table := NewDriverTable([]DriverRow{
		{Surplus: true, GenerationLow: true, SendToBatteries: true},
		{Surplus: false, ConsumptionLow: true, GetFromBatteries: true, ChargeFromPods: true},
	})

	assert.True(t, table.SendToBatteries(Situation{Surplus: true, GenerationLow: true}))
	assert.False(t, table.SendToBatteries(Situation{Surplus: true}))
	assert.True(t, table.GetFromBatteries(Situation{ConsumptionLow: true}))
	assert.True(t, table.ChargeFromPods(Situation{ConsumptionLow: true}))
	assert.False(t, table.ChargeFromPods(Situation{Surplus: true, GenerationLow: true}))
}

// TestEqualBatteriesCharging_SplitsEvenlyAndSaturates covers spec
// scenario E5: three demanding batteries, each with 1 kW of vacancy and
// a 10 kW MaxInputPower, share 6 kW of available power. Each saturates
// at its 1 kW vacancy and 3 kW of the 6 kW is left unplaced.
func TestEqualBatteriesCharging_SplitsEvenlyAndSaturates(t *testing.T) {
	em := buildManager(t, []entities.TechnicalCharacteristicRow{
		{EntityKind: "battery", EntityID: "b1", Magnitude: "nominal_energy", Value: 1, Units: "kWh"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_input_power", Value: 10, Units: "kW"},
		{EntityKind: "battery", EntityID: "b1", Magnitude: "max_output_power", Value: 10, Units: "kW"},
		{EntityKind: "battery", EntityID: "b2", Magnitude: "nominal_energy", Value: 1, Units: "kWh"},
		{EntityKind: "battery", EntityID: "b2", Magnitude: "max_input_power", Value: 10, Units: "kW"},
		{EntityKind: "battery", EntityID: "b2", Magnitude: "max_output_power", Value: 10, Units: "kW"},
		{EntityKind: "battery", EntityID: "b3", Magnitude: "nominal_energy", Value: 1, Units: "kWh"},
		{EntityKind: "battery", EntityID: "b3", Magnitude: "max_input_power", Value: 10, Units: "kW"},
		{EntityKind: "battery", EntityID: "b3", Magnitude: "max_output_power", Value: 10, Units: "kW"},
	})
	// vacancy = (nominal - energy)/Δ = (1-0)/0.25 = 4 kW... the scenario
	// wants 1 kW vacancy per battery, so start each battery 3/4 charged:
	// vacancy = (1 - 0.75)/0.25 = 1 kW.
	for _, id := range []string{"b1", "b2", "b3"} {
		b, _ := em.Battery(id)
		b.Energy = entities.NewMeasurement(0.75, "kWh")
	}

	p := New(em)
	leftover := p.equalBatteriesCharging(em.DemandingBatteries(),
		entities.Measurement{Value: 6, Units: "kW"},
		entities.Measurement{Value: 0, Units: "kW"},
		"t0", "t1")

	assert.InDelta(t, 3, leftover.Value, 1e-9, "each battery saturates at 1 kW of vacancy, 3 kW of 6 kW is left unplaced")
	for _, id := range []string{"b1", "b2", "b3"} {
		b, _ := em.Battery(id)
		assert.InDelta(t, 1, b.Energy.Value, 1e-9)
	}
}
