package entities

import "sort"

// TechnicalCharacteristicRow is one row of the long-format technical
// characteristics table: one (entity_kind, entity_id, magnitude) triple
// per immutable nameplate value an entity needs at construction time.
type TechnicalCharacteristicRow struct {
	EntityKind string
	EntityID   string
	Magnitude  string
	Value      float64
	Units      string
}

// EntitiesManager owns every asset in the simulation and builds them from
// the long-format technical characteristics table, preserving the order
// entities first appear in so iteration is deterministic across runs.
type EntitiesManager struct {
	batteries      []*Battery
	batteryIndex   map[string]*Battery
	photovoltaics  []*PhotovoltaicPlate
	pvIndex        map[string]*PhotovoltaicPlate
	pods           []*PointOfGridDelivery
	podIndex       map[string]*PointOfGridDelivery
	pocs           []*PointOfConsumption
	pocIndex       map[string]*PointOfConsumption
}

// characteristicGroup collects every magnitude seen for one (kind, id)
// pair while the technical characteristics table is being scanned.
type characteristicGroup struct {
	kind string
	id   string
	vals map[string]Measurement
	seen int // insertion order
}

// NewEntitiesManager groups rows by (kind, id) and constructs one typed
// entity per group, in first-seen order. Each kind requires a fixed set
// of magnitudes; a missing one is a fatal ErrMissingParameter.
func NewEntitiesManager(rows []TechnicalCharacteristicRow) (*EntitiesManager, error) {
	groups := make(map[string]*characteristicGroup)
	var order []string
	for i, r := range rows {
		key := r.EntityKind + "|" + r.EntityID
		g, ok := groups[key]
		if !ok {
			g = &characteristicGroup{kind: r.EntityKind, id: r.EntityID, vals: map[string]Measurement{}, seen: i}
			groups[key] = g
			order = append(order, key)
		}
		g.vals[r.Magnitude] = Measurement{Value: r.Value, Units: r.Units}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return groups[order[i]].seen < groups[order[j]].seen
	})

	m := &EntitiesManager{
		batteryIndex: map[string]*Battery{},
		pvIndex:      map[string]*PhotovoltaicPlate{},
		podIndex:     map[string]*PointOfGridDelivery{},
		pocIndex:     map[string]*PointOfConsumption{},
	}

	for _, key := range order {
		g := groups[key]
		switch g.kind {
		case "battery":
			nominalEnergy, err := require(g, "battery", "nominal_energy")
			if err != nil {
				return nil, err
			}
			maxInputPower, err := require(g, "battery", "max_input_power")
			if err != nil {
				return nil, err
			}
			maxOutputPower, err := require(g, "battery", "max_output_power")
			if err != nil {
				return nil, err
			}
			b := NewBattery(g.id, nominalEnergy, maxInputPower, maxOutputPower)
			m.batteries = append(m.batteries, b)
			m.batteryIndex[g.id] = b

		case "photovoltaic_plate":
			surface, err := require(g, "photovoltaic_plate", "surface")
			if err != nil {
				return nil, err
			}
			efficiency, err := require(g, "photovoltaic_plate", "efficiency")
			if err != nil {
				return nil, err
			}
			maxOutputPower, err := require(g, "photovoltaic_plate", "max_output_power")
			if err != nil {
				return nil, err
			}
			p := NewPhotovoltaicPlate(g.id, surface, efficiency, maxOutputPower)
			m.photovoltaics = append(m.photovoltaics, p)
			m.pvIndex[g.id] = p

		case "point_of_grid_delivery":
			maxInputPower, err := require(g, "point_of_grid_delivery", "max_input_power")
			if err != nil {
				return nil, err
			}
			pod := NewPointOfGridDelivery(g.id, maxInputPower)
			m.pods = append(m.pods, pod)
			m.podIndex[g.id] = pod

		case "point_of_consumption":
			poc := NewPointOfConsumption(g.id)
			m.pocs = append(m.pocs, poc)
			m.pocIndex[g.id] = poc

		default:
			return nil, &ErrMissingParameter{EntityKind: g.kind, EntityID: g.id, Magnitude: "(unknown entity kind)"}
		}
	}

	return m, nil
}

func require(g *characteristicGroup, kind, magnitude string) (Measurement, error) {
	v, ok := g.vals[magnitude]
	if !ok {
		return Measurement{}, &ErrMissingParameter{EntityKind: kind, EntityID: g.id, Magnitude: magnitude}
	}
	return v, nil
}

// Batteries returns every battery in first-seen order.
func (m *EntitiesManager) Batteries() []*Battery { return m.batteries }

// Photovoltaics returns every PV plate in first-seen order.
func (m *EntitiesManager) Photovoltaics() []*PhotovoltaicPlate { return m.photovoltaics }

// Pods returns every grid delivery point in first-seen order.
func (m *EntitiesManager) Pods() []*PointOfGridDelivery { return m.pods }

// Pocs returns every consumption point in first-seen order.
func (m *EntitiesManager) Pocs() []*PointOfConsumption { return m.pocs }

// Battery looks up a battery by ID.
func (m *EntitiesManager) Battery(id string) (*Battery, bool) { b, ok := m.batteryIndex[id]; return b, ok }

// Photovoltaic looks up a PV plate by ID.
func (m *EntitiesManager) Photovoltaic(id string) (*PhotovoltaicPlate, bool) {
	p, ok := m.pvIndex[id]
	return p, ok
}

// Pod looks up a grid delivery point by ID.
func (m *EntitiesManager) Pod(id string) (*PointOfGridDelivery, bool) { p, ok := m.podIndex[id]; return p, ok }

// Poc looks up a consumption point by ID.
func (m *EntitiesManager) Poc(id string) (*PointOfConsumption, bool) { p, ok := m.pocIndex[id]; return p, ok }

// SupplyingBatteries returns batteries with strictly positive available
// power given their current energy — candidates to discharge from.
func (m *EntitiesManager) SupplyingBatteries() []*Battery {
	var out []*Battery
	for _, b := range m.batteries {
		if b.AvailablePower().Value > 0 {
			out = append(out, b)
		}
	}
	return out
}

// DemandingBatteries returns batteries with spare charging headroom —
// candidates to charge into.
func (m *EntitiesManager) DemandingBatteries() []*Battery {
	var out []*Battery
	for _, b := range m.batteries {
		vacantPower := b.NominalEnergy.Value/TimeLapse - b.Energy.Value/TimeLapse
		if vacantPower > 0 {
			out = append(out, b)
		}
	}
	return out
}

// SupplyingPods returns grid delivery points with strictly positive
// available import headroom at the given interval.
func (m *EntitiesManager) SupplyingPods(initialDatetime string) []*PointOfGridDelivery {
	var out []*PointOfGridDelivery
	for _, p := range m.pods {
		available, err := p.AvailablePower(initialDatetime)
		if err == nil && available.Value > 0 {
			out = append(out, p)
		}
	}
	return out
}
