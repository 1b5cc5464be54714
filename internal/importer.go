package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Importer reads subscription drafts from a file
type Importer interface {
	Import(path string) ([]SubscriptionDraft, error)
}

// ImporterFunc is a function that implements Importer
type ImporterFunc func(path string) ([]SubscriptionDraft, error)

func (f ImporterFunc) Import(path string) ([]SubscriptionDraft, error) {
	return f(path)
}

// importers is the registry of available importers
var importers = map[string]Importer{}

// RegisterImporter registers an importer with the given format name
func RegisterImporter(name string, imp Importer) {
	importers[name] = imp
}

// GetImporter returns the importer for the given format
func GetImporter(format string) (Importer, error) {
	imp, ok := importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s (available: %v)", format, AvailableImporters())
	}
	return imp, nil
}

// AvailableImporters returns the registered format names, sorted
func AvailableImporters() []string {
	var names []string
	for name := range importers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsKnownImporter returns true if the name is a registered importer
func IsKnownImporter(name string) bool {
	_, ok := importers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "csv:data.txt" → ("csv", "data.txt")
// Example: "data.csv" → ("", "data.csv")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownImporter(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known importer, treat whole thing as path
}

// DetectFormat guesses the import format from the file extension.
func DetectFormat(path string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if IsKnownImporter(ext) {
		return ext, true
	}
	return "", false
}

// ImportFiles reads every file argument concurrently. Each argument may
// carry a "format:" prefix; otherwise the extension decides, then
// defaultFormat. Drafts are returned in argument order.
func ImportFiles(ctx context.Context, files []string, defaultFormat string) ([]SubscriptionDraft, error) {
	results := make([][]SubscriptionDraft, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, arg := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			format, path := ParseFileArg(arg)
			if format == "" {
				var ok bool
				if format, ok = DetectFormat(path); !ok {
					format = defaultFormat
				}
			}
			if format == "" {
				return fmt.Errorf("%s: cannot determine format (use format:path, available: %v)", path, AvailableImporters())
			}
			imp, err := GetImporter(format)
			if err != nil {
				return err
			}
			drafts, err := imp.Import(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = drafts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []SubscriptionDraft
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// importDateLayouts are tried in order when reading a payment date.
var importDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseImportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", s)
}

func parseImportAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return amount, nil
}

// parseImportStatus reads the Status column. Empty means active.
func parseImportStatus(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active", "true", "yes":
		return true, nil
	case "inactive", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("unknown status %q", s)
}

// Column keys used by the tabular importers, derived from header cells.
const (
	colName        = "name"
	colAmount      = "amount"
	colCurrency    = "currency"
	colFrequency   = "billingfrequency"
	colNextPayment = "nextpayment"
	colCategory    = "category"
	colStatus      = "status"
	colDescription = "description"
)

var columnAliases = map[string]string{
	"frequency":       colFrequency,
	"nextpaymentdate": colNextPayment,
	"isactive":        colStatus,
}

// columnKey normalizes a header cell: "Billing Frequency" → "billingfrequency".
func columnKey(header string) string {
	key := strings.ToLower(strings.Join(strings.Fields(header), ""))
	if alias, ok := columnAliases[key]; ok {
		return alias
	}
	return key
}

// headerIndex maps column keys to their position in a header row.
// Returns false unless the name and amount columns are present.
func headerIndex(row []string) (map[string]int, bool) {
	idx := make(map[string]int)
	for i, cell := range row {
		key := columnKey(cell)
		if _, seen := idx[key]; key != "" && !seen {
			idx[key] = i
		}
	}
	_, hasName := idx[colName]
	_, hasAmount := idx[colAmount]
	return idx, hasName && hasAmount
}

// draftFromRow converts one tabular record. Missing optional columns get
// the same defaults the add form uses.
func draftFromRow(idx map[string]int, row []string) (SubscriptionDraft, error) {
	cell := func(key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	d := SubscriptionDraft{
		Name:             cell(colName),
		Currency:         cell(colCurrency),
		BillingFrequency: BillingFrequency(strings.ToLower(cell(colFrequency))),
		Category:         cell(colCategory),
		Description:      cell(colDescription),
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.BillingFrequency == "" {
		d.BillingFrequency = Monthly
	}

	var err error
	if d.Amount, err = parseImportAmount(cell(colAmount)); err != nil {
		return SubscriptionDraft{}, err
	}
	if next := cell(colNextPayment); next != "" {
		if d.NextPaymentDate, err = parseImportDate(next); err != nil {
			return SubscriptionDraft{}, err
		}
	}
	if d.IsActive, err = parseImportStatus(cell(colStatus)); err != nil {
		return SubscriptionDraft{}, err
	}
	return d, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
