package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses CSV text into a dataset. The first record is the header row.
// Ragged records (a different field count than the header) are an error, as
// are duplicate or empty header names. Field values are taken verbatim; any
// trimming or case folding happens at comparison time.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv input is empty")
	}
	schema, err := NewSchema(records[0])
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}
	return New(schema, records[1:])
}

// ReadCSVHeadless parses CSV text that has no header row. Column names are
// synthesized as Column1..ColumnN from the width of the first record.
func ReadCSVHeadless(r io.Reader) (*Dataset, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv input is empty")
	}
	columns := make([]string, len(records[0]))
	for i := range columns {
		columns[i] = fmt.Sprintf("Column%d", i+1)
	}
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}
	return New(schema, records)
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}
