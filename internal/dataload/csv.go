// Package dataload imports reference data (ingredients and tags) from CSV.
package dataload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type IngredientRecord struct {
	Name            string
	MeasurementUnit string
}

type TagRecord struct {
	Name  string
	Color string
	Slug  string
}

// readRows skips the header line and returns rows with exactly width
// fields. Rows whose first field repeats an earlier one are dropped.
func readRows(r io.Reader, width int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = width
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	seen := make(map[string]bool)
	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if row[0] == "" || seen[row[0]] {
			continue
		}
		seen[row[0]] = true
		rows = append(rows, row)
	}
}

// ParseIngredients reads "name,measurement_unit" rows.
func ParseIngredients(r io.Reader) ([]IngredientRecord, error) {
	rows, err := readRows(r, 2)
	if err != nil {
		return nil, fmt.Errorf("ingredients: %w", err)
	}
	out := make([]IngredientRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, IngredientRecord{Name: row[0], MeasurementUnit: row[1]})
	}
	return out, nil
}

// ParseTags reads "name,color,slug" rows.
func ParseTags(r io.Reader) ([]TagRecord, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	out := make([]TagRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, TagRecord{Name: row[0], Color: strings.ToUpper(row[1]), Slug: row[2]})
	}
	return out, nil
}
