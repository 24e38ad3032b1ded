package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"energy_dispatch/internal/entities"
)

var seriesHeader = []string{"InitialDatetime", "FinalDatetime", "Magnitude", "MagnitudeValue", "MagnitudeUnits"}

// ParseSeries reads a per-interval time series shared by contracted
// power, prices, consumption and contracted-power-history files,
// semicolon-separated as in the source data files.
//
// Expected format:
//
//	InitialDatetime;FinalDatetime;Magnitude;MagnitudeValue;MagnitudeUnits
//	2026-01-01 00:00:00;2026-01-01 00:15:00;max_output_power;6;kW
func ParseSeries(r io.Reader) ([]entities.SeriesPoint, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header, seriesHeader); err != nil {
		return nil, err
	}

	var points []entities.SeriesPoint
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
		if len(record) != len(seriesHeader) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNum, len(seriesHeader), len(record))
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing value: %w", lineNum, err)
		}
		points = append(points, entities.SeriesPoint{
			InitialDatetime: strings.TrimSpace(record[0]),
			FinalDatetime:   strings.TrimSpace(record[1]),
			Magnitude:       strings.TrimSpace(record[2]),
			Value:           value,
			Units:           strings.TrimSpace(record[4]),
		})
	}
	return points, nil
}
