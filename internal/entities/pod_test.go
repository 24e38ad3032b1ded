package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPod() *PointOfGridDelivery {
	pod := NewPointOfGridDelivery("pod1", NewMeasurement(10, "kW"))
	pod.UpdateMaxOutputPower([]SeriesPoint{{InitialDatetime: "t0", FinalDatetime: "t1", Value: 6, Units: "kW"}})
	pod.UpdatePurchasePrices([]SeriesPoint{{InitialDatetime: "t0", FinalDatetime: "t1", Value: 0.15, Units: "€/kWh"}})
	pod.UpdateSalePrice(NewMeasurement(0.05, "€/kWh"))
	return pod
}

func TestPointOfGridDelivery_AvailablePower_NoPriorFlow(t *testing.T) {
	pod := newTestPod()
	avail, err := pod.AvailablePower("t0")
	assert.NoError(t, err)
	assert.InDelta(t, 6, avail.Value, 1e-9)
}

func TestPointOfGridDelivery_SupplyPower_CapsOnAvailable(t *testing.T) {
	pod := newTestPod()
	supplied, err := pod.SupplyPower("t0", "t1", NewMeasurement(9, "kW"))
	assert.NoError(t, err)
	assert.InDelta(t, 6, supplied.Value, 1e-9)

	entry, ok := pod.FlowedPower().Get("t0")
	assert.True(t, ok)
	assert.InDelta(t, 6, entry.Value, 1e-9)
}

func TestPointOfGridDelivery_ReceivePower_DoesNotSubtractPriorExportSameInterval(t *testing.T) {
	pod := newTestPod()
	first := pod.ReceivePower("t0", "t1", NewMeasurement(7, "kW"))
	assert.InDelta(t, 7, first.Value, 1e-9)

	// NOTE: the ceiling for a second call in the same interval is still
	// the raw MaxInputPower (10 kW) rather than MaxInputPower minus what
	// was already exported this interval. Preserved verbatim.
	second := pod.ReceivePower("t0", "t1", NewMeasurement(7, "kW"))
	assert.InDelta(t, 7, second.Value, 1e-9)

	entry, ok := pod.FlowedPower().Get("t0")
	assert.True(t, ok)
	assert.InDelta(t, -14, entry.Value, 1e-9)
}

func TestPointOfGridDelivery_GetPurchasePrice(t *testing.T) {
	pod := newTestPod()
	price, err := pod.GetPurchasePrice("t0")
	assert.NoError(t, err)
	assert.InDelta(t, 0.15, price.Value, 1e-9)

	_, err = pod.GetPurchasePrice("missing")
	assert.Error(t, err)
}
