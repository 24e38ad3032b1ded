// Package policy implements the dispatch rules that decide, for every
// interval of the simulation horizon, how power flows between batteries,
// PV generation, the grid connection and consumption.
package policy

import (
	"energy_dispatch/internal/entities"
)

const datetimeFormat = "2006-01-02 15:04:05"

// Policy holds the shared helpers every dispatch rule is built from: the
// entities manager it reads assets from, and the aggregate readers
// (generation, consumption, purchase price) that every rule needs
// regardless of which branch it takes.
type Policy struct {
	Entities *entities.EntitiesManager
}

// New wraps an entities manager in a Policy.
func New(em *entities.EntitiesManager) Policy {
	return Policy{Entities: em}
}

// generation sums GetGeneration across every PV plate for one interval.
func (p Policy) generation(pvs []*entities.PhotovoltaicPlate, initialDatetime string) entities.Measurement {
	total := entities.NewMeasurement(0, "kW")
	for _, pv := range pvs {
		g, err := pv.GetGeneration(initialDatetime)
		if err != nil {
			continue
		}
		total.Value += g.Value
	}
	return total
}

// consumption sums GetConsumption across every consumption point for one
// interval.
func (p Policy) consumption(pocs []*entities.PointOfConsumption, initialDatetime string) entities.Measurement {
	total := entities.NewMeasurement(0, "kWh")
	for _, poc := range pocs {
		c, err := poc.GetConsumption(initialDatetime)
		if err != nil {
			continue
		}
		total.Value += c.Value
	}
	return total
}

// purchasePrice reads the purchase price off the first POD only.
//
// NOTE (spec.md §9 open question 5): every range/price reader in this
// package looks only at pods[0]/pvs[0]/pocs[0] and ignores the rest of
// the slice even when there are several. Preserved verbatim — this is a
// limitation of the source being ported, not a Go-specific shortcut.
func (p Policy) purchasePrice(pods []*entities.PointOfGridDelivery, initialDatetime string) entities.Measurement {
	if len(pods) == 0 {
		return entities.NewMeasurement(0, "€/kWh")
	}
	price, err := pods[0].GetPurchasePrice(initialDatetime)
	if err != nil {
		return entities.NewMeasurement(0, "€/kWh")
	}
	return entities.NewMeasurement(price.Value, "€/kWh")
}

// equalBatteriesCharging splits availablePower evenly across every
// demanding battery, repeating with whatever batteries still have
// headroom until none do or there is no power left to place. It returns
// whatever power could not be placed.
//
// Ported as an explicit loop rather than the source's self-recursion
// (REDESIGN FLAGS): the termination condition is identical — each round
// either empties the remaining power or removes at least one battery
// from contention, so the loop always terminates in at most
// len(demandingBatteries) rounds.
func (p Policy) equalBatteriesCharging(demandingBatteries []*entities.Battery, availablePower entities.Measurement,
	previousChargedPower entities.Measurement, initialDatetime, finalDatetime string) entities.Measurement {

	remaining := demandingBatteries
	power := entities.Measurement{Value: availablePower.Value, Units: availablePower.Units}
	prevCharged := previousChargedPower

	for len(remaining) > 0 && power.Value != 0.0 {
		powerToCharge := entities.Measurement{Value: power.Value / float64(len(remaining)), Units: power.Units}
		var stillDemanding []*entities.Battery
		for _, battery := range remaining {
			vacantPower := (battery.NominalEnergy.Value - battery.Energy.Value) / entities.TimeLapse
			maxInputPower := battery.MaxInputPower.Value - prevCharged.Value
			charged := battery.Charge(initialDatetime, finalDatetime, powerToCharge)
			power.Value -= charged.Value
			if charged.Value != vacantPower && charged.Value != maxInputPower {
				stillDemanding = append(stillDemanding, battery)
			}
		}
		remaining = stillDemanding
		prevCharged = powerToCharge
	}
	return power
}

// updateAllFlows records a (possibly zero) residual flow against every
// battery and POD for the interval, matching the source's practice of
// closing out every asset's ledger for an interval regardless of which
// branch actually moved power.
func (p Policy) updateAllFlows(batteries []*entities.Battery, pods []*entities.PointOfGridDelivery,
	initialDatetime, finalDatetime string, residual entities.Measurement) {
	for _, b := range batteries {
		b.UpdateFlowedPower(initialDatetime, finalDatetime, residual)
	}
	for _, pod := range pods {
		pod.UpdateFlowedPower(initialDatetime, finalDatetime, residual)
	}
}
