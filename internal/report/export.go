// Package report builds the long-format simulation output table and the
// per-POD cost figure from a simulated EntitiesManager.
package report

import (
	"energy_dispatch/internal/entities"
)

// Row is one line of the long-format simulation export: one
// (entity, magnitude) reading for one interval.
type Row struct {
	InitialDatetime string
	FinalDatetime   string
	EntityID        string
	EntityType      string
	Magnitude       string
	Value           float64
	Units           string
}

// Export walks every interval of [initialDatetime, finalDatetime] and
// emits one row per (entity, magnitude) pair, in entity-kind order
// (batteries, then PV plates, then PODs, then POCs) matching the shapes
// spec.md describes: batteries emit power and state_of_charge; PV plates
// and PODs emit power; POCs emit energy.
func Export(em *entities.EntitiesManager, initialDatetime, finalDatetime string, timeLapse float64) ([]Row, error) {
	var rows []Row

	current := initialDatetime
	next, err := stepDatetime(current, timeLapse)
	if err != nil {
		return nil, err
	}
	for current <= finalDatetime {
		for _, b := range em.Batteries() {
			r, err := batteryRows(b, current, next)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r...)
		}
		for _, pv := range em.Photovoltaics() {
			r, err := pvRow(pv, current, next)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		for _, pod := range em.Pods() {
			r, err := podRow(pod, current, next)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		for _, poc := range em.Pocs() {
			r, err := pocRow(poc, current, next)
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}

		current = next
		next, err = stepDatetime(current, timeLapse)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func batteryRows(b *entities.Battery, initialDatetime, finalDatetime string) ([]Row, error) {
	flow, ok := b.FlowedPower().Get(initialDatetime)
	if !ok {
		return nil, &entities.ErrMisalignedInput{EntityID: b.ID, Series: "flowed_power", Timestamp: initialDatetime}
	}
	stored, ok := b.StoredEnergy().Get(initialDatetime)
	if !ok {
		return nil, &entities.ErrMisalignedInput{EntityID: b.ID, Series: "stored_energy", Timestamp: initialDatetime}
	}
	stateOfCharge := stored.Value / b.NominalEnergy.Value * 100

	return []Row{
		{InitialDatetime: initialDatetime, FinalDatetime: finalDatetime, EntityID: b.ID, EntityType: "battery",
			Magnitude: "power", Value: flow.Value, Units: "kW"},
		{InitialDatetime: initialDatetime, FinalDatetime: finalDatetime, EntityID: b.ID, EntityType: "battery",
			Magnitude: "state_of_charge", Value: stateOfCharge, Units: "%"},
	}, nil
}

func pvRow(pv *entities.PhotovoltaicPlate, initialDatetime, finalDatetime string) (Row, error) {
	gen, err := pv.GetGeneration(initialDatetime)
	if err != nil {
		return Row{}, err
	}
	return Row{InitialDatetime: initialDatetime, FinalDatetime: finalDatetime, EntityID: pv.ID,
		EntityType: "photovoltaic_plate", Magnitude: "power", Value: gen.Value, Units: "kW"}, nil
}

func podRow(pod *entities.PointOfGridDelivery, initialDatetime, finalDatetime string) (Row, error) {
	flow, ok := pod.FlowedPower().Get(initialDatetime)
	if !ok {
		return Row{}, &entities.ErrMisalignedInput{EntityID: pod.ID, Series: "flowed_power", Timestamp: initialDatetime}
	}
	return Row{InitialDatetime: initialDatetime, FinalDatetime: finalDatetime, EntityID: pod.ID,
		EntityType: "point_of_grid_delivery", Magnitude: "power", Value: flow.Value, Units: "kW"}, nil
}

func pocRow(poc *entities.PointOfConsumption, initialDatetime, finalDatetime string) (Row, error) {
	consumption, err := poc.GetConsumption(initialDatetime)
	if err != nil {
		return Row{}, err
	}
	return Row{InitialDatetime: initialDatetime, FinalDatetime: finalDatetime, EntityID: poc.ID,
		EntityType: "point_of_consumption", Magnitude: "energy", Value: consumption.Value, Units: "kWh"}, nil
}
