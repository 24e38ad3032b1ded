// Command policy-compare runs StandardPolicy and a mesh-searched
// OptimizerPolicy over the same horizon and prints their costs side by
// side, so the benefit of the optimizer over the naive dispatch rule can
// be read off directly.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"energy_dispatch/internal/config"
	"energy_dispatch/internal/entities"
	"energy_dispatch/internal/ingest"
	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/report"
	"energy_dispatch/internal/search"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the dispatch configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	drivers, err := loadDrivers(cfg)
	if err != nil {
		log.Fatalf("loading drivers: %v", err)
	}

	build := func() (*entities.EntitiesManager, error) { return buildEntities(cfg) }

	standardCost, err := runStandard(cfg, build)
	if err != nil {
		log.Fatalf("running standard policy: %v", err)
	}

	ms := search.New(drivers, search.Builder(build))
	best, all, err := ms.Run(cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours)
	if err != nil {
		log.Fatalf("running mesh search: %v", err)
	}

	fmt.Printf("standard policy cost:  %.2f €\n", standardCost)
	fmt.Printf("optimizer policy cost: %.2f € (coefficients %+v)\n", best.Cost, best.Coefficients)
	fmt.Printf("improvement:           %.2f €\n", standardCost-best.Cost)
	fmt.Printf("evaluated %d coefficient tuples\n", len(all))
}

func runStandard(cfg *config.Config, build func() (*entities.EntitiesManager, error)) (float64, error) {
	em, err := build()
	if err != nil {
		return 0, err
	}
	sp := policy.NewStandardPolicy(em)
	if err := sp.Simulate(cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours); err != nil {
		return 0, err
	}
	rows, err := report.Export(em, cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours)
	if err != nil {
		return 0, err
	}
	return report.Cost(em, rows, cfg.Horizon.TimeLapseHours)
}

func buildEntities(cfg *config.Config) (*entities.EntitiesManager, error) {
	characteristics, err := readCSV(cfg.Input.TechnicalCharacteristics, ingest.ParseTechnicalCharacteristics)
	if err != nil {
		return nil, fmt.Errorf("reading technical characteristics: %w", err)
	}
	em, err := entities.NewEntitiesManager(characteristics)
	if err != nil {
		return nil, err
	}

	if cfg.Input.ContractedPower != "" {
		maxOutput, err := readCSV(cfg.Input.ContractedPower, ingest.ParseSeries)
		if err != nil {
			return nil, err
		}
		for _, pod := range em.Pods() {
			pod.UpdateMaxOutputPower(maxOutput)
		}
	}
	if cfg.Input.Prices != "" {
		prices, err := readCSV(cfg.Input.Prices, ingest.ParseSeries)
		if err != nil {
			return nil, err
		}
		for _, pod := range em.Pods() {
			pod.UpdatePurchasePrices(prices)
		}
	}
	if cfg.Input.Consumption != "" {
		consumption, err := readCSV(cfg.Input.Consumption, ingest.ParseSeries)
		if err != nil {
			return nil, err
		}
		for _, poc := range em.Pocs() {
			poc.UpdateConsumption(consumption)
		}
	}

	return em, nil
}

func loadDrivers(cfg *config.Config) (*policy.DriverTable, error) {
	if cfg.Input.Drivers == "" {
		return policy.NewDriverTable(nil), nil
	}
	rows, err := readCSV(cfg.Input.Drivers, ingest.ParseDrivers)
	if err != nil {
		return nil, err
	}
	return policy.NewDriverTable(rows), nil
}

func readCSV[T any](path string, parse func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return parse(f)
}
