// Package ingest parses the CSV and JSON input files a simulation run is
// built from: the technical characteristics table, per-interval time
// series (contracted power, prices, consumption), the driver table, and
// meteorological forecasts.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"energy_dispatch/internal/entities"
)

var characteristicsHeader = []string{"Entity", "Id", "Magnitude", "MagnitudeValue", "MagnitudeUnits"}

// ParseTechnicalCharacteristics reads the long-format technical
// characteristics table, semicolon-separated as in the source data
// files.
//
// Expected format:
//
//	Entity;Id;Magnitude;MagnitudeValue;MagnitudeUnits
//	battery;b1;nominal_energy;10;kWh
func ParseTechnicalCharacteristics(r io.Reader) ([]entities.TechnicalCharacteristicRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, characteristicsHeader); err != nil {
		return nil, err
	}

	var rows []entities.TechnicalCharacteristicRow
	lineNum := 1
	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}
		if len(record) != len(characteristicsHeader) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(characteristicsHeader), len(record))
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing value: %w", lineNum, err)
		}
		rows = append(rows, entities.TechnicalCharacteristicRow{
			EntityKind: strings.TrimSpace(record[0]),
			EntityID:   strings.TrimSpace(record[1]),
			Magnitude:  strings.TrimSpace(record[2]),
			Value:      value,
			Units:      strings.TrimSpace(record[4]),
		})
	}
	return rows, nil
}

func validateHeader(got, want []string) error {
	if len(got) < len(want) {
		return fmt.Errorf("expected at least %d columns, got %d", len(want), len(got))
	}
	for i, col := range want {
		if strings.TrimSpace(got[i]) != col {
			return fmt.Errorf("expected column %d to be %q, got %q", i, col, got[i])
		}
	}
	return nil
}
