package policy

import (
	"time"

	"energy_dispatch/internal/entities"
)

// StandardPolicy is the self-consumption-priority dispatch rule: cover
// shortfalls from batteries first and the grid second; send surplus to
// batteries first and the grid second.
type StandardPolicy struct {
	Policy
}

// NewStandardPolicy wraps an entities manager in a StandardPolicy.
func NewStandardPolicy(em *entities.EntitiesManager) *StandardPolicy {
	return &StandardPolicy{Policy: New(em)}
}

// Simulate walks the horizon [initialDatetime, finalDatetime] in steps of
// timeLapse hours, distributing power for each interval in turn.
func (s *StandardPolicy) Simulate(initialDatetime, finalDatetime string, timeLapse float64) error {
	initialDate := initialDatetime
	finalDate, err := stepDatetime(initialDate, timeLapse)
	if err != nil {
		return err
	}
	for initialDate <= finalDatetime {
		s.distribute(initialDate, finalDate, timeLapse)
		initialDate = finalDate
		finalDate, err = stepDatetime(initialDate, timeLapse)
		if err != nil {
			return err
		}
	}
	return nil
}

func stepDatetime(initialDatetime string, timeLapse float64) (string, error) {
	t, err := time.Parse(datetimeFormat, initialDatetime)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(timeLapse * float64(time.Hour))).Format(datetimeFormat), nil
}

func (s *StandardPolicy) distribute(initialDatetime, finalDatetime string, timeLapse float64) {
	batteries := s.Entities.Batteries()
	pvs := s.Entities.Photovoltaics()
	pods := s.Entities.Pods()
	pocs := s.Entities.Pocs()

	generation := s.generation(pvs, initialDatetime)
	consumption := s.consumption(pocs, initialDatetime)

	// Case 1: consumption overcomes generation — draw batteries then grid.
	if generation.Value < consumption.Value/timeLapse {
		remaining := entities.Measurement{Value: consumption.Value/timeLapse - generation.Value, Units: "kW"}

		supplyingBatteries := s.Entities.SupplyingBatteries()
		for _, battery := range supplyingBatteries {
			supplied := battery.Discharge(initialDatetime, finalDatetime, remaining)
			remaining.Value -= supplied.Value
			if remaining.Value == 0.0 {
				s.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
				return
			}
		}

		supplyingPods := s.Entities.SupplyingPods(initialDatetime)
		for _, pod := range supplyingPods {
			supplied, err := pod.SupplyPower(initialDatetime, finalDatetime, remaining)
			if err != nil {
				continue
			}
			remaining.Value -= supplied.Value
			if remaining.Value == 0.0 {
				s.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
				return
			}
		}
	}

	// Case 2: generation overcomes consumption — charge batteries then sell to grid.
	if generation.Value > consumption.Value/timeLapse {
		remaining := entities.Measurement{Value: generation.Value - consumption.Value/timeLapse, Units: "kW"}

		demandingBatteries := s.Entities.DemandingBatteries()
		if len(demandingBatteries) > 0 {
			notCharged := s.equalBatteriesCharging(demandingBatteries, remaining,
				entities.Measurement{Value: 0.0, Units: remaining.Units}, initialDatetime, finalDatetime)
			// Reproduces the source's "remaining -= remaining - notCharged"
			// which always resolves to remaining = notCharged.
			remaining.Value -= remaining.Value - notCharged.Value
			if remaining.Value == 0.0 {
				s.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
				return
			}
		}

		for _, pod := range pods {
			sold := pod.ReceivePower(initialDatetime, finalDatetime, remaining)
			remaining.Value -= sold.Value
			if remaining.Value == 0.0 {
				s.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, remaining)
				return
			}
		}
	}

	// Case 3: generation equals consumption, or case 1 or 2 left power
	// unplaced — close out every asset at zero.
	s.updateAllFlows(batteries, pods, initialDatetime, finalDatetime, entities.Measurement{Value: 0.0, Units: "kWh"})
}
