package entities

// PointOfGridDelivery is the site's grid connection. MaxInputPower is the
// immutable export ceiling (power flowing FROM the site TO the grid).
// MaxOutputPower is a per-interval contracted import ceiling, mutable via
// UpdateMaxOutputPower. PurchasePrices is a per-interval €/kWh series;
// SalePrice is a single scalar for the whole horizon.
type PointOfGridDelivery struct {
	ID string

	MaxInputPower Measurement // kW, export ceiling

	maxOutputPower *Ledger // kW, per-interval import ceiling
	purchasePrices *Ledger // €/kWh
	salePrice      Measurement
	flowedPower    *Ledger // kW, signed: +import, -export
}

// NewPointOfGridDelivery constructs a POD with no time series loaded yet.
func NewPointOfGridDelivery(id string, maxInputPower Measurement) *PointOfGridDelivery {
	return &PointOfGridDelivery{
		ID:             id,
		MaxInputPower:  maxInputPower,
		maxOutputPower: NewLedger(),
		purchasePrices: NewLedger(),
		flowedPower:    NewLedger(),
	}
}

// FlowedPower exposes the POD's flow ledger for reporting.
func (p *PointOfGridDelivery) FlowedPower() *Ledger { return p.flowedPower }

// UpdateMaxOutputPower loads the per-interval contracted import ceiling.
func (p *PointOfGridDelivery) UpdateMaxOutputPower(series []SeriesPoint) {
	p.maxOutputPower = NewLedger()
	for _, s := range series {
		p.maxOutputPower.Accumulate(s.InitialDatetime, s.FinalDatetime, Measurement{Value: s.Value, Units: s.Units})
	}
}

// UpdatePurchasePrices loads the per-interval purchase price series.
func (p *PointOfGridDelivery) UpdatePurchasePrices(series []SeriesPoint) {
	p.purchasePrices = NewLedger()
	for _, s := range series {
		p.purchasePrices.Accumulate(s.InitialDatetime, s.FinalDatetime, Measurement{Value: s.Value, Units: s.Units})
	}
}

// UpdateSalePrice sets the scalar sale price (€/kWh) used by the Cost
// function for exported energy.
func (p *PointOfGridDelivery) UpdateSalePrice(salePrice Measurement) {
	p.salePrice = salePrice
}

// GetPurchasePrice returns the purchase price at initialDatetime.
func (p *PointOfGridDelivery) GetPurchasePrice(initialDatetime string) (Measurement, error) {
	entry, ok := p.purchasePrices.Get(initialDatetime)
	if !ok {
		return Measurement{}, &ErrMisalignedInput{EntityID: p.ID, Series: "purchase_prices", Timestamp: initialDatetime}
	}
	return Measurement{Value: entry.Value, Units: "€/kWh"}, nil
}

// AllPurchasePrices returns the full purchase-price ledger.
func (p *PointOfGridDelivery) AllPurchasePrices() *Ledger { return p.purchasePrices }

// AllMaxOutputPower returns the full contracted-import-ceiling ledger.
func (p *PointOfGridDelivery) AllMaxOutputPower() *Ledger { return p.maxOutputPower }

// AllFlowedPower returns the full signed flow ledger.
func (p *PointOfGridDelivery) AllFlowedPower() *Ledger { return p.flowedPower }

// GetSalePrice returns the scalar sale price.
func (p *PointOfGridDelivery) GetSalePrice() Measurement { return p.salePrice }

// AvailablePower returns the remaining import headroom for interval t:
// MaxOutputPower[t] - flowedPower[t] (missing flow treated as 0).
func (p *PointOfGridDelivery) AvailablePower(initialDatetime string) (Measurement, error) {
	ceiling, ok := p.maxOutputPower.Get(initialDatetime)
	if !ok {
		return Measurement{}, &ErrMisalignedInput{EntityID: p.ID, Series: "max_output_power", Timestamp: initialDatetime}
	}
	flowed := 0.0
	if e, ok := p.flowedPower.Get(initialDatetime); ok {
		flowed = e.Value
	}
	return Measurement{Value: ceiling.Value - flowed, Units: ceiling.Units}, nil
}

// SupplyPower imports up to AvailablePower(t0) from the grid, returning
// what was actually supplied (import, ledgered positive).
func (p *PointOfGridDelivery) SupplyPower(initialDatetime, finalDatetime string, requested Measurement) (Measurement, error) {
	available, err := p.AvailablePower(initialDatetime)
	if err != nil {
		return Measurement{}, err
	}
	supplied := Measurement{Value: min(available.Value, requested.Value), Units: requested.Units}
	p.UpdateFlowedPower(initialDatetime, finalDatetime, supplied)
	return supplied, nil
}

// ReceivePower exports up to MaxInputPower to the grid, returning what was
// actually received (export, ledgered negative).
//
// NOTE (spec.md §9 open question 3): the ceiling here is always the raw
// MaxInputPower — it does not subtract export already ledgered this
// interval, so repeated calls within one interval can over-ledger a POD
// beyond its nameplate export limit. Preserved verbatim.
func (p *PointOfGridDelivery) ReceivePower(initialDatetime, finalDatetime string, requested Measurement) Measurement {
	received := Measurement{Value: min(p.MaxInputPower.Value, requested.Value), Units: requested.Units}
	p.UpdateFlowedPower(initialDatetime, finalDatetime, Measurement{Value: -received.Value, Units: requested.Units})
	return received
}

// UpdateFlowedPower accumulates a signed power flow for the interval,
// creating a new ledger entry on first write and incrementing thereafter.
func (p *PointOfGridDelivery) UpdateFlowedPower(initialDatetime, finalDatetime string, power Measurement) {
	p.flowedPower.Accumulate(initialDatetime, finalDatetime, power)
}

// SeriesPoint is one point of a generic per-interval time series (a
// contracted-power ceiling, a price, etc.) as loaded from ingestion.
// Magnitude names which parameter the point belongs to (e.g.
// "max_output_power", "purchase_price", "consumption") — the series
// input files carry this column even though a given file conventionally
// holds only one magnitude throughout.
type SeriesPoint struct {
	InitialDatetime string
	FinalDatetime   string
	Magnitude       string
	Value           float64
	Units           string
}
