// Package dataset loads ground-truth narratives for benchmark
// validation. Samples are read-only input data; the engine never writes
// them.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/redlinehq/redline/internal/models"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadSamples reads a validation batch from a CSV file. Recognized
// columns: "text" or "narrative" (required), "expected" or "label"
// (required), "id" (optional, defaults to row-N).
func LoadSamples(path string) (models.ValidationBatch, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	batch := make(models.ValidationBatch, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		text := row["text"]
		if text == "" {
			text = row["narrative"]
		}
		if text == "" {
			return nil, fmt.Errorf("csv: row %d has no text/narrative column value", rowNum)
		}

		label := row["expected"]
		if label == "" {
			label = row["label"]
		}
		expected, err := parseClassification(label)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", rowNum, err)
		}

		id := row["id"]
		if id == "" {
			id = fmt.Sprintf("row-%d", rowNum)
		}

		batch = append(batch, models.LabeledSample{ID: id, Text: text, Expected: expected})
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("csv: %s has no data rows", path)
	}
	return batch, nil
}

func parseClassification(s string) (models.Classification, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QUALIFYING", "QUALIFIED", "PASS":
		return models.Qualifying, nil
	case "NON_QUALIFYING", "NON-QUALIFYING", "NONQUALIFYING", "FAIL":
		return models.NonQualifying, nil
	default:
		return "", fmt.Errorf("invalid expected label %q", s)
	}
}
