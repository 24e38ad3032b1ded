package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"energy_dispatch/internal/policy"
)

var driversHeader = []string{"surplus", "consumption_rise", "purchase_price_rise", "consumption_low",
	"generation_low", "purchase_price_low", "send_to_batteries", "charge_from_pods", "get_from_batteries"}

// ParseDrivers reads the driver table, semicolon-separated as in the
// source data files.
func ParseDrivers(r io.Reader) ([]policy.DriverRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, driversHeader); err != nil {
		return nil, err
	}

	var rows []policy.DriverRow
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
		if len(record) != len(driversHeader) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(driversHeader), len(record))
		}
		bits := make([]bool, len(record))
		for i, field := range record {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing column %d: %w", lineNum, i, err)
			}
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("line %d: column %d must be 0 or 1, got %d", lineNum, i, v)
			}
			bits[i] = v == 1
		}
		rows = append(rows, policy.DriverRow{
			Surplus:            bits[0],
			ConsumptionRise:    bits[1],
			PurchasePriceRise:  bits[2],
			ConsumptionLow:     bits[3],
			GenerationLow:      bits[4],
			PurchasePriceLow:   bits[5],
			SendToBatteries:    bits[6],
			ChargeFromPods:     bits[7],
			GetFromBatteries:   bits[8],
		})
	}
	return rows, nil
}
