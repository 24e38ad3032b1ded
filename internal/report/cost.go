package report

import "energy_dispatch/internal/entities"

// Cost sums, across every POD and every interval present in rows, the
// interval's energy (power * timeLapse) priced per sign: imported energy
// is multiplied by the purchase price, and exported energy (negative,
// since PODs ledger export as negative power) by the negated sale price.
// Exported energy therefore adds |energy| * sale price to the total; it
// does not reduce it.
func Cost(em *entities.EntitiesManager, rows []Row, timeLapse float64) (float64, error) {
	dates := uniqueDates(rows)

	var cost float64
	for _, pod := range em.Pods() {
		podRows := rowsFor(rows, pod.ID)
		for _, date := range dates {
			value, ok := podRows[date]
			if !ok {
				continue
			}
			consumption := value * timeLapse
			if consumption >= 0.0 {
				price, err := pod.GetPurchasePrice(date)
				if err != nil {
					return 0, err
				}
				cost += consumption * price.Value
			} else {
				cost -= consumption * pod.GetSalePrice().Value
			}
		}
	}
	return cost, nil
}

func uniqueDates(rows []Row) []string {
	seen := map[string]bool{}
	var dates []string
	for _, r := range rows {
		if !seen[r.InitialDatetime] {
			seen[r.InitialDatetime] = true
			dates = append(dates, r.InitialDatetime)
		}
	}
	return dates
}

func rowsFor(rows []Row, entityID string) map[string]float64 {
	out := map[string]float64{}
	for _, r := range rows {
		if r.EntityID == entityID && r.Magnitude == "power" {
			out[r.InitialDatetime] = r.Value
		}
	}
	return out
}
