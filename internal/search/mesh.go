// Package search explores the OptimizerPolicy coefficient space by
// brute-force grid search, minimizing simulated cost.
package search

import (
	"errors"

	"energy_dispatch/internal/entities"
	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/report"
)

// coefficientGrid is the set of values tried for every one of the five
// OptimizerPolicy coefficients: 0.40, 0.45, 0.50, 0.55, 0.60.
var coefficientGrid = func() []float64 {
	grid := make([]float64, 0, 5)
	for x := 40; x <= 60; x += 5 {
		grid = append(grid, float64(x)/100)
	}
	return grid
}()

// Builder constructs a fresh EntitiesManager for one mesh-search trial.
// It must return a manager with every series already loaded and every
// asset reset to its starting state, since each trial runs a full
// simulation against shared mutable entity state.
type Builder func() (*entities.EntitiesManager, error)

// Result is one evaluated point of the coefficient grid.
type Result struct {
	Coefficients policy.Coefficients
	Cost         float64
}

// MeshSearch runs every point of the 5-dimensional coefficient grid
// through OptimizerPolicy and returns the point with the lowest cost.
// Iteration order is fixed (outermost ConsumptionSlope, innermost
// PurchasePriceLow) so that, combined with the strict less-than
// comparison used to update the best-so-far result, two runs over the
// same inputs always return the same tuple even if ties exist.
type MeshSearch struct {
	drivers *policy.DriverTable
	build   Builder
}

// New constructs a MeshSearch over the given driver table and entity builder.
func New(drivers *policy.DriverTable, build Builder) *MeshSearch {
	return &MeshSearch{drivers: drivers, build: build}
}

// Run evaluates the full grid and returns the best result found, along
// with every evaluated point in evaluation order (for reporting/audit).
//
// A tuple whose simulation, export or cost computation fails (e.g. a
// constant-valued series collapsing a relative-feature range to empty)
// is disqualifying, not fatal: it is skipped and the search continues
// over the remaining tuples. A failure to build the entities manager
// itself is treated differently, since the same build is retried for
// every tuple and would fail identically each time — that error is
// returned immediately instead of being retried 3125 times.
func (m *MeshSearch) Run(initialDatetime, finalDatetime string, timeLapse float64) (Result, []Result, error) {
	best := Result{Cost: 1e100}
	var all []Result

	for _, consumptionSlope := range coefficientGrid {
		for _, purchasePriceSlope := range coefficientGrid {
			for _, consumptionLow := range coefficientGrid {
				for _, generationLow := range coefficientGrid {
					for _, purchasePriceLow := range coefficientGrid {
						coefficients := policy.Coefficients{
							ConsumptionSlope:   consumptionSlope,
							PurchasePriceSlope: purchasePriceSlope,
							ConsumptionLow:     consumptionLow,
							GenerationLow:      generationLow,
							PurchasePriceLow:   purchasePriceLow,
						}

						em, err := m.build()
						if err != nil {
							return Result{}, nil, err
						}

						op := policy.NewOptimizerPolicy(em, coefficients, m.drivers)
						if err := op.Simulate(initialDatetime, finalDatetime, timeLapse); err != nil {
							continue
						}

						rows, err := report.Export(em, initialDatetime, finalDatetime, timeLapse)
						if err != nil {
							continue
						}
						cost, err := report.Cost(em, rows, timeLapse)
						if err != nil {
							continue
						}

						result := Result{Coefficients: coefficients, Cost: cost}
						all = append(all, result)
						if cost < best.Cost {
							best = result
						}
					}
				}
			}
		}
	}

	if len(all) == 0 {
		return Result{}, nil, errors.New("mesh search: every coefficient tuple failed to simulate")
	}

	return best, all, nil
}
