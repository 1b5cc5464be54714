package internal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ImportCSV reads a CSV file with a header row, such as the csv export.
// Columns are matched by header name, so order and extra columns do not matter.
func ImportCSV(path string) ([]SubscriptionDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]SubscriptionDraft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx, ok := headerIndex(header)
	if !ok {
		return nil, fmt.Errorf("could not find required columns (Name, Amount)")
	}

	var drafts []SubscriptionDraft
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}
		d, err := draftFromRow(idx, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func init() {
	RegisterImporter("csv", ImporterFunc(ImportCSV))
}
