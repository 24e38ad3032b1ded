package policy

// DriverRow is one row of the driver table as ingested from drivers.csv:
// a 6-bit situation pattern and the three action flags triggered by it.
type DriverRow struct {
	Surplus            bool
	ConsumptionRise     bool
	PurchasePriceRise   bool
	ConsumptionLow      bool
	GenerationLow       bool
	PurchasePriceLow    bool
	SendToBatteries     bool
	ChargeFromPods      bool
	GetFromBatteries    bool
}

// Situation is the 6-bit pattern OptimizerPolicy evaluates every
// interval, in the same field order the driver table uses.
type Situation struct {
	Surplus           bool
	ConsumptionRise    bool
	PurchasePriceRise  bool
	ConsumptionLow     bool
	GenerationLow      bool
	PurchasePriceLow   bool
}

func (s Situation) encode() uint8 {
	var bits uint8
	if s.Surplus {
		bits |= 1 << 0
	}
	if s.ConsumptionRise {
		bits |= 1 << 1
	}
	if s.PurchasePriceRise {
		bits |= 1 << 2
	}
	if s.ConsumptionLow {
		bits |= 1 << 3
	}
	if s.GenerationLow {
		bits |= 1 << 4
	}
	if s.PurchasePriceLow {
		bits |= 1 << 5
	}
	return bits
}

func (d DriverRow) situation() Situation {
	return Situation{
		Surplus:           d.Surplus,
		ConsumptionRise:    d.ConsumptionRise,
		PurchasePriceRise:  d.PurchasePriceRise,
		ConsumptionLow:     d.ConsumptionLow,
		GenerationLow:      d.GenerationLow,
		PurchasePriceLow:   d.PurchasePriceLow,
	}
}

// DriverTable is the 64-situation rule table reduced to three bitmask
// sets, one per action flag. Membership is an O(1) lookup instead of the
// source's per-call table scan (REDESIGN FLAGS).
type DriverTable struct {
	sendToBatteries  uint64
	chargeFromPods   uint64
	getFromBatteries uint64
}

// NewDriverTable builds the three action bitmasks from the ingested
// driver rows.
func NewDriverTable(rows []DriverRow) *DriverTable {
	t := &DriverTable{}
	for _, row := range rows {
		bit := uint64(1) << row.situation().encode()
		if row.SendToBatteries {
			t.sendToBatteries |= bit
		}
		if row.ChargeFromPods {
			t.chargeFromPods |= bit
		}
		if row.GetFromBatteries {
			t.getFromBatteries |= bit
		}
	}
	return t
}

// SendToBatteries reports whether the situation triggers send_to_batteries.
func (t *DriverTable) SendToBatteries(s Situation) bool {
	return t.sendToBatteries&(uint64(1)<<s.encode()) != 0
}

// ChargeFromPods reports whether the situation triggers charge_from_pods.
func (t *DriverTable) ChargeFromPods(s Situation) bool {
	return t.chargeFromPods&(uint64(1)<<s.encode()) != 0
}

// GetFromBatteries reports whether the situation triggers get_from_batteries.
func (t *DriverTable) GetFromBatteries(s Situation) bool {
	return t.getFromBatteries&(uint64(1)<<s.encode()) != 0
}
