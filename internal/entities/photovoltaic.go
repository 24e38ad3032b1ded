package entities

// PhotovoltaicPlate is a generation asset. Surface, Efficiency and
// MaxOutputPower are immutable; Generation is derived once from a
// meteorological series via UpdateGeneration and read-only thereafter.
type PhotovoltaicPlate struct {
	ID string

	Surface        Measurement // m²
	Efficiency     Measurement // %, 0-100
	MaxOutputPower Measurement // kW

	generation *Ledger // kW
}

// NewPhotovoltaicPlate constructs a PV plate with no generation series yet.
func NewPhotovoltaicPlate(id string, surface, efficiency, maxOutputPower Measurement) *PhotovoltaicPlate {
	return &PhotovoltaicPlate{
		ID:             id,
		Surface:        surface,
		Efficiency:     efficiency,
		MaxOutputPower: maxOutputPower,
		generation:     NewLedger(),
	}
}

// DirectRadiationPoint is one reading of the meteorological direct
// radiation series (W/m²) that UpdateGeneration derives generation from.
type DirectRadiationPoint struct {
	InitialDatetime string
	FinalDatetime   string
	ValueWm2        float64
}

// DaylightClamp narrows generation to zero outside daylight hours. It is
// an optional hook — when nil, the raw radiation-derived formula is used
// unmodified, matching the source exactly.
type DaylightClamp func(initialDatetime string) bool

// UpdateGeneration derives the generation series from a direct-radiation
// series: generation[t] = radiation[t]/1000 * Surface * Efficiency/100.
// Called once after construction; read-only thereafter. If clamp is
// non-nil and reports false (sun below horizon) for a timestamp, that
// interval's generation is forced to zero regardless of the formula.
func (p *PhotovoltaicPlate) UpdateGeneration(radiation []DirectRadiationPoint, clamp DaylightClamp) {
	p.generation = NewLedger()
	for _, r := range radiation {
		value := r.ValueWm2 / 1000 * p.Surface.Value * p.Efficiency.Value / 100
		if clamp != nil && !clamp(r.InitialDatetime) {
			value = 0
		}
		p.generation.Accumulate(r.InitialDatetime, r.FinalDatetime, Measurement{Value: value, Units: "kW"})
	}
}

// GetGeneration returns the generation at initialDatetime.
func (p *PhotovoltaicPlate) GetGeneration(initialDatetime string) (Measurement, error) {
	entry, ok := p.generation.Get(initialDatetime)
	if !ok {
		return Measurement{}, &ErrMisalignedInput{EntityID: p.ID, Series: "generation", Timestamp: initialDatetime}
	}
	return Measurement{Value: entry.Value, Units: entry.Units}, nil
}

// AllGeneration returns the full generation ledger, e.g. for the
// relative-feature range computation in OptimizerPolicy.
func (p *PhotovoltaicPlate) AllGeneration() *Ledger { return p.generation }
