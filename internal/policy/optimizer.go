package policy

import (
	"math"

	"energy_dispatch/internal/entities"
)

// Coefficients are the five tunable thresholds OptimizerPolicy compares
// live readings against. MeshSearch explores a grid of these.
type Coefficients struct {
	ConsumptionSlope   float64
	PurchasePriceSlope float64
	ConsumptionLow     float64
	GenerationLow      float64
	PurchasePriceLow   float64
}

// the slope function's smoothing constant, ported as-is from the source.
const slopeConstant = 0.72134752

// OptimizerPolicy dispatches by matching a live 6-bit situation vector
// against a static driver table, rather than StandardPolicy's fixed
// priority order.
type OptimizerPolicy struct {
	Policy
	coefficients Coefficients
	drivers      *DriverTable
	lastState    Situation
}

// NewOptimizerPolicy wraps an entities manager, coefficient set and
// driver table in an OptimizerPolicy.
func NewOptimizerPolicy(em *entities.EntitiesManager, coefficients Coefficients, drivers *DriverTable) *OptimizerPolicy {
	return &OptimizerPolicy{Policy: New(em), coefficients: coefficients, drivers: drivers}
}

// LastState returns the situation vector evaluated by the most recent
// distribute call, mainly for tests and reporting.
func (o *OptimizerPolicy) LastState() Situation { return o.lastState }

// Simulate walks the horizon in steps of timeLapse hours, as StandardPolicy does.
func (o *OptimizerPolicy) Simulate(initialDatetime, finalDatetime string, timeLapse float64) error {
	initialDate := initialDatetime
	finalDate, err := stepDatetime(initialDate, timeLapse)
	if err != nil {
		return err
	}
	for initialDate <= finalDatetime {
		if err := o.distribute(initialDate, finalDate, timeLapse); err != nil {
			return err
		}
		initialDate = finalDate
		finalDate, err = stepDatetime(initialDate, timeLapse)
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *OptimizerPolicy) distribute(initialDatetime, finalDatetime string, timeLapse float64) error {
	batteries := o.Entities.Batteries()
	pvs := o.Entities.Photovoltaics()
	pods := o.Entities.Pods()
	pocs := o.Entities.Pocs()

	currentConsumption := o.consumption(pocs, initialDatetime)
	nextConsumption := o.consumption(pocs, finalDatetime)
	currentGeneration := o.generation(pvs, initialDatetime)
	currentPurchasePrice := o.purchasePrice(pods, initialDatetime)
	nextPurchasePrice := o.purchasePrice(pods, finalDatetime)

	consumptionSlope := slope(currentConsumption.Value, nextConsumption.Value)
	purchasePriceSlope := slope(currentPurchasePrice.Value, nextPurchasePrice.Value)

	consumptionMin, consumptionMax, err := consumptionRange(pocs)
	if err != nil {
		return err
	}
	generationMin, generationMax, err := generationRange(pvs)
	if err != nil {
		return err
	}
	priceMin, priceMax, err := purchasePricesRange(pods)
	if err != nil {
		return err
	}

	relativeConsumption := (currentConsumption.Value - consumptionMin) / (consumptionMax - consumptionMin)
	relativeGeneration := (currentGeneration.Value - generationMin) / (generationMax - generationMin)
	relativePrice := (currentPurchasePrice.Value - priceMin) / (priceMax - priceMin)

	state := Situation{
		Surplus:           currentGeneration.Value-currentConsumption.Value/timeLapse >= 0.0,
		ConsumptionRise:    consumptionSlope >= o.coefficients.ConsumptionSlope,
		PurchasePriceRise:  purchasePriceSlope >= o.coefficients.PurchasePriceSlope,
		ConsumptionLow:     relativeConsumption < o.coefficients.ConsumptionLow,
		GenerationLow:      relativeGeneration < o.coefficients.GenerationLow,
		PurchasePriceLow:   relativePrice < o.coefficients.PurchasePriceLow,
	}
	o.lastState = state

	if state.Surplus {
		o.sendPower(state, currentConsumption, currentGeneration, batteries, pods, initialDatetime, finalDatetime, timeLapse)
		return nil
	}
	o.getPower(state, currentConsumption, currentGeneration, batteries, pods, initialDatetime, finalDatetime, timeLapse)
	return nil
}

func (o *OptimizerPolicy) sendPower(state Situation, consumption, generation entities.Measurement,
	batteries []*entities.Battery, pods []*entities.PointOfGridDelivery, initialDatetime, finalDatetime string, timeLapse float64) {

	remaining := entities.Measurement{Value: generation.Value - consumption.Value/timeLapse, Units: generation.Units}
	demandingBatteries := o.Entities.DemandingBatteries()

	if o.drivers.SendToBatteries(state) && len(demandingBatteries) > 0 {
		notCharged := o.equalBatteriesCharging(demandingBatteries, remaining,
			entities.Measurement{Value: 0.0, Units: remaining.Units}, initialDatetime, finalDatetime)
		remaining.Value -= remaining.Value - notCharged.Value
		if remaining.Value == 0.0 {
			o.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
			return
		}
	}

	powerPerPod := entities.Measurement{Value: remaining.Value / float64(len(pods)), Units: remaining.Units}
	for _, pod := range pods {
		received := pod.ReceivePower(initialDatetime, finalDatetime, powerPerPod)
		remaining.Value -= received.Value
	}

	o.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
}

func (o *OptimizerPolicy) getPower(state Situation, consumption, generation entities.Measurement,
	batteries []*entities.Battery, pods []*entities.PointOfGridDelivery, initialDatetime, finalDatetime string, timeLapse float64) {

	remaining := entities.Measurement{Value: consumption.Value/timeLapse - generation.Value, Units: generation.Units}
	supplyingBatteries := o.Entities.SupplyingBatteries()
	demandingBatteries := o.Entities.DemandingBatteries()

	if o.drivers.GetFromBatteries(state) && len(supplyingBatteries) > 0 {
		for _, battery := range supplyingBatteries {
			supplied := battery.Discharge(initialDatetime, finalDatetime, remaining)
			remaining.Value -= supplied.Value
		}
		if remaining.Value == 0.0 {
			o.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
			return
		}
	}

	powerPerPod := entities.Measurement{Value: remaining.Value / float64(len(pods)), Units: remaining.Units}
	for _, pod := range pods {
		supplied, err := pod.SupplyPower(initialDatetime, finalDatetime, powerPerPod)
		if err != nil {
			continue
		}
		remaining.Value -= supplied.Value
	}

	if o.drivers.ChargeFromPods(state) && len(demandingBatteries) > 0 {
		availablePower := entities.Measurement{Value: 0.0, Units: remaining.Units}
		for _, pod := range pods {
			available, err := pod.AvailablePower(initialDatetime)
			if err != nil {
				continue
			}
			availablePower.Value += available.Value
		}
		notCharged := o.equalBatteriesCharging(demandingBatteries, availablePower,
			entities.Measurement{Value: 0.0, Units: remaining.Units}, initialDatetime, finalDatetime)
		chargedPerPod := entities.Measurement{Value: (availablePower.Value - notCharged.Value) / float64(len(pods)), Units: remaining.Units}
		for _, pod := range pods {
			pod.UpdateFlowedPower(initialDatetime, finalDatetime, chargedPerPod)
		}
	}

	o.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
}

// slope measures how sharply a reading is about to change, smoothed by
// slopeConstant. Flat zero-to-zero transitions are defined as zero slope;
// a transition to or from zero is defined as the non-zero endpoint itself
// (signed) rather than evaluated through the logarithm, which would be
// undefined at zero.
func slope(current, following float64) float64 {
	if current == 0.0 && following == 0.0 {
		return 0.0
	}
	if current == 0.0 && following != 0.0 {
		return following
	}
	if current != 0.0 && following == 0.0 {
		return -current
	}
	return slopeConstant*math.Log(current/following) + 0.5
}

// consumptionRange, generationRange and purchasePricesRange look only at
// the first entity of each kind.
//
// NOTE (spec.md §9 open question 5): preserved verbatim from the source;
// a site with several POCs, PV plates or PODs still normalizes every
// relative feature against only pocs[0]/pvs[0]/pods[0]'s own history.
func consumptionRange(pocs []*entities.PointOfConsumption) (min, max float64, err error) {
	if len(pocs) == 0 {
		return 0, 0, &entities.ErrEmptyRange{Series: "consumption"}
	}
	return ledgerRange(pocs[0].AllConsumption(), "consumption")
}

func generationRange(pvs []*entities.PhotovoltaicPlate) (min, max float64, err error) {
	if len(pvs) == 0 {
		return 0, 0, &entities.ErrEmptyRange{Series: "generation"}
	}
	return ledgerRange(pvs[0].AllGeneration(), "generation")
}

func purchasePricesRange(pods []*entities.PointOfGridDelivery) (min, max float64, err error) {
	if len(pods) == 0 {
		return 0, 0, &entities.ErrEmptyRange{Series: "purchase_prices"}
	}
	return ledgerRange(pods[0].AllPurchasePrices(), "purchase_prices")
}

func ledgerRange(l *entities.Ledger, series string) (min, max float64, err error) {
	entries := l.Entries()
	if len(entries) == 0 {
		return 0, 0, &entities.ErrEmptyRange{Series: series}
	}
	min, max = entries[0].Value, entries[0].Value
	for _, e := range entries[1:] {
		if e.Value < min {
			min = e.Value
		}
		if e.Value > max {
			max = e.Value
		}
	}
	if max == min {
		return 0, 0, &entities.ErrEmptyRange{Series: series}
	}
	return min, max, nil
}
