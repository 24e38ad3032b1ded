// Package repository persists mesh-search run results to a local SQLite
// database, so past runs can be compared without re-running the search.
package repository

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/search"
)

// StoredRun is one persisted mesh-search run: its winning coefficients,
// reported cost, and the window it was evaluated over.
type StoredRun struct {
	ID              string `gorm:"primaryKey"`
	CreatedAt       time.Time
	InitialDatetime string
	FinalDatetime   string
	ConsumptionSlope   float64
	PurchasePriceSlope float64
	ConsumptionLow     float64
	GenerationLow      float64
	PurchasePriceLow   float64
	Cost               float64
}

// Repository stores mesh-search run results to SQLite.
type Repository struct {
	db *gorm.DB
}

// New opens (creating if needed) the SQLite database at path and
// migrates its schema.
func New(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&StoredRun{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// SaveRun persists a mesh-search result under a freshly generated run ID
// and returns that ID.
func (r *Repository) SaveRun(initialDatetime, finalDatetime string, result search.Result) (string, error) {
	run := StoredRun{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now(),
		InitialDatetime:    initialDatetime,
		FinalDatetime:      finalDatetime,
		ConsumptionSlope:   result.Coefficients.ConsumptionSlope,
		PurchasePriceSlope: result.Coefficients.PurchasePriceSlope,
		ConsumptionLow:     result.Coefficients.ConsumptionLow,
		GenerationLow:      result.Coefficients.GenerationLow,
		PurchasePriceLow:   result.Coefficients.PurchasePriceLow,
		Cost:               result.Cost,
	}
	if err := r.db.Create(&run).Error; err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	return run.ID, nil
}

// Runs returns every persisted run, most recent first.
func (r *Repository) Runs() ([]StoredRun, error) {
	var runs []StoredRun
	if err := r.db.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Coefficients reconstructs the policy.Coefficients a stored run won with.
func (s StoredRun) Coefficients() policy.Coefficients {
	return policy.Coefficients{
		ConsumptionSlope:   s.ConsumptionSlope,
		PurchasePriceSlope: s.PurchasePriceSlope,
		ConsumptionLow:     s.ConsumptionLow,
		GenerationLow:      s.GenerationLow,
		PurchasePriceLow:   s.PurchasePriceLow,
	}
}
