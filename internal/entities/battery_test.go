package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestBattery() *Battery {
	return NewBattery("b1",
		NewMeasurement(10, "kWh"),
		NewMeasurement(5, "kW"),
		NewMeasurement(5, "kW"),
	)
}

func TestBattery_NewStartsEmpty(t *testing.T) {
	b := newTestBattery()
	assert.InDelta(t, 0, b.Energy.Value, 1e-9)
}

func TestBattery_AvailablePower_CapsOnMaxInputPower(t *testing.T) {
	b := newTestBattery()
	b.Energy = NewMeasurement(10, "kWh") // full: storedPower = 10/0.25 = 40 kW

	// NOTE: this caps against MaxInputPower (5 kW), not MaxOutputPower,
	// reproducing the source's behavior even though the two happen to be
	// equal in this fixture; see the dedicated asymmetric-ceiling test.
	avail := b.AvailablePower()
	assert.InDelta(t, 5, avail.Value, 1e-9)
}

func TestBattery_AvailablePower_UsesInputCeilingEvenWhenOutputDiffers(t *testing.T) {
	b := NewBattery("b1", NewMeasurement(10, "kWh"), NewMeasurement(2, "kW"), NewMeasurement(8, "kW"))
	b.Energy = NewMeasurement(10, "kWh")

	avail := b.AvailablePower()
	assert.InDelta(t, 2, avail.Value, 1e-9, "available power must cap on MaxInputPower, preserving the ported behavior")
}

func TestBattery_Charge_IgnoresRequestedAmount(t *testing.T) {
	b := newTestBattery()
	// vacantPower = 10/0.25 - 0/0.25 = 40, capped at MaxInputPower=5
	charged := b.Charge("t0", "t1", NewMeasurement(0.1, "kW"))
	assert.InDelta(t, 5, charged.Value, 1e-9, "requested amount is not used as an upper bound")
	assert.InDelta(t, 5*TimeLapse, b.Energy.Value, 1e-9)
}

func TestBattery_Discharge_RespectsRequestedAndAvailable(t *testing.T) {
	b := newTestBattery()
	b.Energy = NewMeasurement(2, "kWh") // storedPower = 8 kW, capped at 5 kW available

	discharged := b.Discharge("t0", "t1", NewMeasurement(1, "kW"))
	assert.InDelta(t, 1, discharged.Value, 1e-9)
	assert.InDelta(t, 2-1*TimeLapse, b.Energy.Value, 1e-9)
}

func TestBattery_UpdateFlowedPower_OnlyAdvancesEnergyOnCreatingWrite(t *testing.T) {
	b := newTestBattery()
	b.UpdateFlowedPower("t0", "t1", NewMeasurement(2, "kW"))
	assert.InDelta(t, 2*TimeLapse, b.Energy.Value, 1e-9)

	// Second write to the same interval only increments the ledger; it
	// must not move Energy again.
	b.UpdateFlowedPower("t0", "t1", NewMeasurement(0, "kW"))
	assert.InDelta(t, 2*TimeLapse, b.Energy.Value, 1e-9)

	entry, ok := b.FlowedPower().Get("t0")
	assert.True(t, ok)
	assert.InDelta(t, 2, entry.Value, 1e-9)
}

func TestBattery_StoredEnergy_AccumulatesAcrossIntervals(t *testing.T) {
	b := newTestBattery()
	b.UpdateFlowedPower("t0", "t1", NewMeasurement(4, "kW"))
	b.UpdateFlowedPower("t1", "t2", NewMeasurement(4, "kW"))

	last, ok := b.StoredEnergy().Last()
	assert.True(t, ok)
	assert.InDelta(t, 4*TimeLapse*2, last.Value, 1e-9)
}
