// Command coefficient-report runs the full OptimizerPolicy mesh search
// over a configured horizon and prints the -top lowest-cost evaluated
// coefficient tuples ordered by cost, optionally persisting the winning
// tuple to the run store.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"energy_dispatch/internal/config"
	"energy_dispatch/internal/entities"
	"energy_dispatch/internal/ingest"
	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/repository"
	"energy_dispatch/internal/search"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the dispatch configuration file")
	top := flag.Int("top", 10, "number of best tuples to print")
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

	ms := search.New(drivers, search.Builder(build))
	best, all, err := ms.Run(cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours)
	if err != nil {
		log.Fatalf("running mesh search: %v", err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Cost < all[j].Cost })
	n := *top
	if n > len(all) {
		n = len(all)
	}
	for i := 0; i < n; i++ {
		r := all[i]
		fmt.Printf("%2d. cost %.4f €  coefficients %+v\n", i+1, r.Cost, r.Coefficients)
	}

	if cfg.Store.SQLitePath != "" {
		repo, err := repository.New(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		runID, err := repo.SaveRun(cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, best)
		if err != nil {
			log.Fatalf("saving run: %v", err)
		}
		fmt.Printf("saved best run as %s\n", runID)
	}
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
