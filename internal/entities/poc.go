package entities

// PointOfConsumption is a load asset. Its only state is a per-interval
// consumption series loaded from ingestion; it never writes to its own
// series during simulation, only policies read it.
type PointOfConsumption struct {
	ID string

	consumption *Ledger // kWh
}

// NewPointOfConsumption constructs a POC with no consumption series yet.
func NewPointOfConsumption(id string) *PointOfConsumption {
	return &PointOfConsumption{ID: id, consumption: NewLedger()}
}

// UpdateConsumption loads the per-interval consumption series.
func (c *PointOfConsumption) UpdateConsumption(series []SeriesPoint) {
	c.consumption = NewLedger()
	for _, s := range series {
		c.consumption.Accumulate(s.InitialDatetime, s.FinalDatetime, Measurement{Value: s.Value, Units: s.Units})
	}
}

// GetConsumption returns the consumption at initialDatetime.
func (c *PointOfConsumption) GetConsumption(initialDatetime string) (Measurement, error) {
	entry, ok := c.consumption.Get(initialDatetime)
	if !ok {
		return Measurement{}, &ErrMisalignedInput{EntityID: c.ID, Series: "consumption", Timestamp: initialDatetime}
	}
	return Measurement{Value: entry.Value, Units: entry.Units}, nil
}

// AllConsumption returns the full consumption ledger, e.g. for the
// relative-feature range computation in OptimizerPolicy.
func (c *PointOfConsumption) AllConsumption() *Ledger { return c.consumption }
