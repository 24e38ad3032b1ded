// Package entities implements the four dispatchable asset kinds —
// Battery, PhotovoltaicPlate, PointOfGridDelivery, PointOfConsumption —
// and the EntitiesManager that owns a portfolio of them for one
// simulation.
package entities

// Measurement is a scalar value paired with a unit tag. Units are carried
// for provenance only; arithmetic reads .Value and copies the unit from
// the left operand. Callers are responsible for matching units — the
// core performs no conversion.
type Measurement struct {
	Value float64
	Units string
}

// NewMeasurement constructs a Measurement.
func NewMeasurement(value float64, units string) Measurement {
	return Measurement{Value: value, Units: units}
}

// Add returns a Measurement with the sum of the two values, using the
// receiver's units.
func (m Measurement) Add(other Measurement) Measurement {
	return Measurement{Value: m.Value + other.Value, Units: m.Units}
}

// Sub returns a Measurement with the difference of the two values, using
// the receiver's units.
func (m Measurement) Sub(other Measurement) Measurement {
	return Measurement{Value: m.Value - other.Value, Units: m.Units}
}

// Min returns whichever Measurement has the smaller value, keeping that
// Measurement's units.
func Min(a, b Measurement) Measurement {
	if a.Value < b.Value {
		return a
	}
	return b
}
