package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportHeader is the column set shared by the CSV and XLSX exports.
var ExportHeader = []string{"Name", "Amount", "Currency", "Billing Frequency", "Next Payment", "Category", "Status"}

// isoMillis is ISO-8601 in UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t as UTC ISO-8601 with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// FormatAmount renders an amount with the shortest exact decimal form (15.99, 120).
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func exportRow(sub Subscription) []string {
	return []string{
		sub.Name,
		FormatAmount(sub.Amount),
		sub.Currency,
		string(sub.BillingFrequency),
		FormatTimestamp(sub.NextPaymentDate),
		sub.Category,
		sub.StatusLabel(),
	}
}

func quoteCSVRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// FormatCSV serializes subscriptions with every field double-quoted, one row
// per line and no trailing newline.
func FormatCSV(subs []Subscription) string {
	lines := make([]string, 0, len(subs)+1)
	lines = append(lines, quoteCSVRow(ExportHeader))
	for _, sub := range subs {
		lines = append(lines, quoteCSVRow(exportRow(sub)))
	}
	return strings.Join(lines, "\n")
}

// WriteCSV writes FormatCSV(subs) to w.
func WriteCSV(w io.Writer, subs []Subscription) error {
	if _, err := io.WriteString(w, FormatCSV(subs)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteJSON writes subscriptions in the store record format.
func WriteJSON(w io.Writer, subs []Subscription) error {
	if subs == nil {
		subs = []Subscription{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(subs); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

const xlsxSheet = "Subscriptions"

// WriteXLSX writes subscriptions as a workbook with a single sheet. Amounts
// are numeric cells; the remaining columns match the CSV export.
func WriteXLSX(w io.Writer, subs []Subscription) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, sub := range subs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		row := []any{
			sub.Name,
			sub.Amount,
			sub.Currency,
			string(sub.BillingFrequency),
			FormatTimestamp(sub.NextPaymentDate),
			sub.Category,
			sub.StatusLabel(),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Exporter writes a subscription list in one output format.
type Exporter func(w io.Writer, subs []Subscription) error

var exporters = map[string]Exporter{
	"csv":  WriteCSV,
	"json": WriteJSON,
	"xlsx": WriteXLSX,
}

// GetExporter returns the exporter for the given format name.
func GetExporter(format string) (Exporter, error) {
	e, ok := exporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown export format: %s (available: csv, json, xlsx)", format)
	}
	return e, nil
}

// ExportFileName is the default file name for an export made on day now.
func ExportFileName(format string, now time.Time) string {
	return fmt.Sprintf("subscriptions-%s.%s", now.Format("2006-01-02"), strings.ToLower(format))
}
