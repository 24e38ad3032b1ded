package entities

// TimeLapse is the fixed interval length, in hours, of the simulation
// grid (Δ in spec.md). The source this engine is ported from hard-codes
// 0.25 throughout rather than threading it as a parameter everywhere;
// we keep that as a package constant for the same reason — every entity
// method below needs it and the horizon is always quarter-hourly.
const TimeLapse = 0.25

// Battery is a dispatchable storage asset. NominalEnergy, MaxInputPower
// and MaxOutputPower are immutable once constructed; Energy is the
// mutable current state of charge.
type Battery struct {
	ID string

	NominalEnergy  Measurement // kWh
	MaxInputPower  Measurement // kW
	MaxOutputPower Measurement // kW

	Energy Measurement // kWh, current stored energy

	flowedPower  *Ledger // kW, signed: +charging, -discharging
	storedEnergy *Ledger // kWh, cumulative at end of each interval
}

// NewBattery constructs a battery starting empty (Energy = 0).
func NewBattery(id string, nominalEnergy, maxInputPower, maxOutputPower Measurement) *Battery {
	return &Battery{
		ID:             id,
		NominalEnergy:  nominalEnergy,
		MaxInputPower:  maxInputPower,
		MaxOutputPower: maxOutputPower,
		Energy:         NewMeasurement(0, nominalEnergy.Units),
		flowedPower:    NewLedger(),
		storedEnergy:   NewLedger(),
	}
}

// FlowedPower exposes the battery's power ledger for reporting.
func (b *Battery) FlowedPower() *Ledger { return b.flowedPower }

// StoredEnergy exposes the battery's stored-energy ledger for reporting.
func (b *Battery) StoredEnergy() *Ledger { return b.storedEnergy }

// AvailablePower returns the power the battery could discharge right now.
//
// NOTE (spec.md §9 open question 1): this caps against MaxInputPower, not
// MaxOutputPower. That looks like a transcription bug in the source this
// is ported from, but the behavior is preserved verbatim — changing it
// would be an intentional semantic change, not a port.
func (b *Battery) AvailablePower() Measurement {
	storedPower := b.Energy.Value / TimeLapse
	return Measurement{
		Value: min(storedPower, b.MaxInputPower.Value),
		Units: b.MaxInputPower.Units,
	}
}

// Charge attempts to charge the battery over [initialDatetime,
// finalDatetime) and returns the power actually charged.
//
// NOTE (spec.md §9 open question 2): the requested amount is NOT used as
// an upper bound — the result is always min(vacantPower, MaxInputPower)
// regardless of what the caller asked for. Preserved verbatim.
func (b *Battery) Charge(initialDatetime, finalDatetime string, requested Measurement) Measurement {
	vacantPower := b.NominalEnergy.Value/TimeLapse - b.Energy.Value/TimeLapse
	charged := Measurement{
		Value: min(vacantPower, b.MaxInputPower.Value),
		Units: requested.Units,
	}
	b.UpdateFlowedPower(initialDatetime, finalDatetime, charged)
	return charged
}

// Discharge attempts to discharge the battery over [initialDatetime,
// finalDatetime) and returns the power actually discharged.
func (b *Battery) Discharge(initialDatetime, finalDatetime string, requested Measurement) Measurement {
	available := b.AvailablePower()
	discharged := Measurement{
		Value: min(available.Value, requested.Value),
		Units: requested.Units,
	}
	b.UpdateFlowedPower(initialDatetime, finalDatetime, Measurement{Value: -discharged.Value, Units: requested.Units})
	return discharged
}

// UpdateFlowedPower records a signed power flow for the interval. If an
// entry for initialDatetime already exists its magnitude is incremented;
// otherwise a new entry is appended and, only on that creating write,
// Energy and the stored-energy ledger advance by power*Δ. Repeated same-
// interval calls after the first therefore move the ledger total but do
// not move the battery's actual state of charge again — this mirrors the
// source exactly (it only applies the energy delta inside the "new
// record" branch of its update method).
func (b *Battery) UpdateFlowedPower(initialDatetime, finalDatetime string, power Measurement) {
	_, created := b.flowedPower.Accumulate(initialDatetime, finalDatetime, power)
	if !created {
		return
	}
	b.updateStoredEnergy(initialDatetime, finalDatetime, power)
}

func (b *Battery) updateStoredEnergy(initialDatetime, finalDatetime string, power Measurement) {
	b.Energy.Value += power.Value * TimeLapse

	previous := 0.0
	if last, ok := b.storedEnergy.Last(); ok {
		previous = last.Value
	}
	b.storedEnergy.Accumulate(initialDatetime, finalDatetime, Measurement{
		Value: power.Value*TimeLapse + previous,
		Units: "kWh",
	})
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
