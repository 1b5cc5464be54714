package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ImportXLSX reads subscriptions from the first sheet of a workbook.
// The header row is located by its Name and Amount cells, so title rows
// above the table are skipped.
func ImportXLSX(path string) ([]SubscriptionDraft, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	var idx map[string]int
	dataStartRow := -1
	for i, row := range rows {
		if m, ok := headerIndex(row); ok {
			idx, dataStartRow = m, i+1
			break
		}
	}
	if dataStartRow < 0 {
		return nil, fmt.Errorf("could not find required columns (Name, Amount)")
	}

	var drafts []SubscriptionDraft
	for i := dataStartRow; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		d, err := draftFromRow(idx, rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func init() {
	RegisterImporter("xlsx", ImporterFunc(ImportXLSX))
}
