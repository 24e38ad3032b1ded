// Command dispatch runs a full dispatch simulation (or serves one over
// HTTP) from a configuration file and a set of input CSV/JSON files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"energy_dispatch/internal/api"
	"energy_dispatch/internal/config"
	"energy_dispatch/internal/entities"
	"energy_dispatch/internal/ingest"
	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/repository"
	"energy_dispatch/internal/report"
	"energy_dispatch/internal/solar"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the dispatch configuration file")
	policyName := flag.String("policy", "standard", "dispatch policy to run: standard or optimizer")
	serve := flag.Bool("serve", false, "serve the dispatch engine over HTTP instead of running once")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	build := func() (*entities.EntitiesManager, error) {
		return buildEntities(cfg)
	}

	drivers, err := loadDrivers(cfg)
	if err != nil {
		log.Fatalf("loading drivers: %v", err)
	}

	if *serve {
		var repo *repository.Repository
		if cfg.Store.SQLitePath != "" {
			repo, err = repository.New(cfg.Store.SQLitePath)
			if err != nil {
				log.Fatalf("opening run store: %v", err)
			}
		}
		srv := api.NewServer(build, drivers, repo)
		log.Printf("serving dispatch API on %s", cfg.Server.ListenAddress)
		if err := http.ListenAndServe(cfg.Server.ListenAddress, srv.Handler()); err != nil {
			log.Fatal(err)
		}
		return
	}

	em, err := build()
	if err != nil {
		log.Fatalf("building entities: %v", err)
	}

	switch *policyName {
	case "standard":
		sp := policy.NewStandardPolicy(em)
		if err := sp.Simulate(cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours); err != nil {
			log.Fatalf("simulating: %v", err)
		}
	case "optimizer":
		log.Fatal("optimizer policy requires coefficients; use cmd/coefficient-report to find them first")
	default:
		log.Fatalf("unknown policy %q", *policyName)
	}

	rows, err := report.Export(em, cfg.Horizon.InitialDatetime, cfg.Horizon.FinalDatetime, cfg.Horizon.TimeLapseHours)
	if err != nil {
		log.Fatalf("exporting report: %v", err)
	}
	cost, err := report.Cost(em, rows, cfg.Horizon.TimeLapseHours)
	if err != nil {
		log.Fatalf("calculating cost: %v", err)
	}

	fmt.Printf("Simulated %d rows, total cost %.2f €\n", len(rows), cost)
}

// buildEntities loads the technical characteristics table and every
// per-interval series the simulation needs, wiring the site's daylight
// clamp into PV generation.
func buildEntities(cfg *config.Config) (*entities.EntitiesManager, error) {
	characteristics, err := readCSV(cfg.Input.TechnicalCharacteristics, ingest.ParseTechnicalCharacteristics)
	if err != nil {
		return nil, fmt.Errorf("reading technical characteristics: %w", err)
	}
	em, err := entities.NewEntitiesManager(characteristics)
	if err != nil {
		return nil, err
	}

	site := solar.Site{Latitude: cfg.Site.Latitude, Longitude: cfg.Site.Longitude}

	if cfg.Input.Meteo != "" {
		f, err := os.Open(cfg.Input.Meteo)
		if err != nil {
			return nil, fmt.Errorf("opening meteo file: %w", err)
		}
		defer f.Close()
		forecast, err := ingest.ParseMeteo(f)
		if err != nil {
			return nil, err
		}
		radiation, err := forecast.DirectRadiationSeries()
		if err != nil {
			return nil, err
		}
		for _, pv := range em.Photovoltaics() {
			pv.UpdateGeneration(radiation, site.Clamp)
		}
	}

	if cfg.Input.ContractedPower != "" {
		maxOutput, err := readCSV(cfg.Input.ContractedPower, ingest.ParseSeries)
		if err != nil {
			return nil, fmt.Errorf("reading contracted power: %w", err)
		}
		for _, pod := range em.Pods() {
			pod.UpdateMaxOutputPower(maxOutput)
		}
	}

	if cfg.Input.Prices != "" {
		prices, err := readCSV(cfg.Input.Prices, ingest.ParseSeries)
		if err != nil {
			return nil, fmt.Errorf("reading prices: %w", err)
		}
		for _, pod := range em.Pods() {
			pod.UpdatePurchasePrices(prices)
		}
	}

	if cfg.Input.Consumption != "" {
		consumption, err := readCSV(cfg.Input.Consumption, ingest.ParseSeries)
		if err != nil {
			return nil, fmt.Errorf("reading consumption: %w", err)
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
