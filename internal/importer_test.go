package internal

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsKnownImporter(t *testing.T) {
	RegisterImporter("test-format", ImporterFunc(func(path string) ([]SubscriptionDraft, error) {
		return nil, nil
	}))

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"registered importer", "test-format", true},
		{"built-in csv", "csv", true},
		{"built-in transactions", "transactions", true},
		{"unknown importer", "unknown-format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKnownImporter(tt.input); got != tt.expected {
				t.Errorf("IsKnownImporter(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAvailableImporters(t *testing.T) {
	got := AvailableImporters()
	for _, want := range []string{"csv", "json", "transactions", "xlsx"} {
		if !slices.Contains(got, want) {
			t.Errorf("AvailableImporters() = %v, missing %s", got, want)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("AvailableImporters() not sorted: %v", got)
	}
}

func TestParseFileArg(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedFormat string
		expectedPath   string
	}{
		{"with format prefix", "csv:data.txt", "csv", "data.txt"},
		{"transactions prefix", "transactions:bank.json", "transactions", "bank.json"},
		{"no prefix", "data.json", "", "data.json"},
		{"unknown prefix treated as path", "unknown:data.json", "", "unknown:data.json"},
		{"windows path with drive letter", "C:\\Users\\test\\data.xlsx", "", "C:\\Users\\test\\data.xlsx"},
		{"prefix with absolute path", "json:/home/user/data.json", "json", "/home/user/data.json"},
		{"prefix with spaces in path", "xlsx:path with spaces/file", "xlsx", "path with spaces/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFormat, gotPath := ParseFileArg(tt.input)
			if gotFormat != tt.expectedFormat {
				t.Errorf("ParseFileArg(%q) format = %q, want %q", tt.input, gotFormat, tt.expectedFormat)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("ParseFileArg(%q) path = %q, want %q", tt.input, gotPath, tt.expectedPath)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		format string
		ok     bool
	}{
		{"subs.csv", "csv", true},
		{"/tmp/Export.XLSX", "xlsx", true},
		{"backup.json", "json", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		format, ok := DetectFormat(tt.path)
		if format != tt.format || ok != tt.ok {
			t.Errorf("DetectFormat(%q) = (%q, %v), want (%q, %v)", tt.path, format, ok, tt.format, tt.ok)
		}
	}
}

func TestImportJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrapped object", `{"subscriptions": [
			{"name": "Netflix", "amount": 15.99, "billingFrequency": "monthly", "nextPaymentDate": "2025-01-15", "category": "Entertainment"},
			{"name": "Dropbox", "amount": 119.88, "currency": "EUR", "billingFrequency": "yearly", "isActive": false}
		]}`},
		{"bare array", `[
			{"name": "Netflix", "amount": 15.99, "nextPaymentDate": "2025-01-15T00:00:00.000Z", "category": "Entertainment"},
			{"name": "Dropbox", "amount": 119.88, "currency": "EUR", "billingFrequency": "yearly", "isActive": false}
		]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ImportJSON(writeFile(t, "subs.json", tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if len(drafts) != 2 {
				t.Fatalf("got %d drafts, want 2", len(drafts))
			}
			n := drafts[0]
			if n.Name != "Netflix" || n.Currency != "USD" || n.BillingFrequency != Monthly || !n.IsActive {
				t.Errorf("unexpected defaults: %+v", n)
			}
			if n.NextPaymentDate.Format("2006-01-02") != "2025-01-15" {
				t.Errorf("NextPaymentDate = %v", n.NextPaymentDate)
			}
			d := drafts[1]
			if d.Currency != "EUR" || d.BillingFrequency != Yearly || d.IsActive || !d.NextPaymentDate.IsZero() {
				t.Errorf("unexpected second draft: %+v", d)
			}
		})
	}
}

func TestImportJSON_Errors(t *testing.T) {
	if _, err := ImportJSON(writeFile(t, "bad.json", `{"subscriptions": [`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ImportJSON(writeFile(t, "date.json", `[{"name": "X", "amount": 1, "nextPaymentDate": "15/01/2025"}]`)); err == nil {
		t.Error("expected error for unparseable date")
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV(t *testing.T) {
	content := strings.Join([]string{
		`Category,Name,Amount,Frequency,Next Payment Date,Status,Notes`,
		`Entertainment,Netflix,"15,99",Monthly,2025-01-15,Active,ignored`,
		``,
		`Software,JetBrains,249,yearly,2025-06-01,inactive,`,
	}, "\n")

	drafts, err := ImportCSV(writeFile(t, "subs.csv", content))
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	n := drafts[0]
	if n.Name != "Netflix" || n.Amount != 15.99 || n.BillingFrequency != Monthly || n.Category != "Entertainment" || !n.IsActive {
		t.Errorf("unexpected first draft: %+v", n)
	}
	if j := drafts[1]; j.BillingFrequency != Yearly || j.IsActive || j.Currency != "USD" {
		t.Errorf("unexpected second draft: %+v", j)
	}
}

func TestImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing amount column", "Name,Price\nNetflix,10\n"},
		{"bad amount", "Name,Amount\nNetflix,ten\n"},
		{"bad status", "Name,Amount,Status\nNetflix,10,maybe\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportCSV(writeFile(t, "subs.csv", tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImportCSV_Empty(t *testing.T) {
	drafts, err := ImportCSV(writeFile(t, "empty.csv", ""))
	if err != nil || len(drafts) != 0 {
		t.Errorf("ImportCSV(empty) = %v, %v", drafts, err)
	}
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"My subscriptions"},
		{},
		{"Name", "Amount", "Currency", "Billing Frequency", "Next Payment", "Category", "Status"},
		{"Spotify", "10.99", "EUR", "monthly", "2025-03-01", "Music & Audio", "Active"},
		{"Dropbox", "119.88", "EUR", "yearly", "2025-09-01", "Cloud Storage", "Inactive"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "subs.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	drafts, err := ImportXLSX(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	if s := drafts[0]; s.Name != "Spotify" || s.Amount != 10.99 || s.Currency != "EUR" || !s.IsActive {
		t.Errorf("unexpected first draft: %+v", s)
	}
	if d := drafts[1]; d.BillingFrequency != Yearly || d.IsActive {
		t.Errorf("unexpected second draft: %+v", d)
	}
}

func TestImportTransactionsJSON(t *testing.T) {
	content := `{
		"currency": "SEK",
		"transactions": [
			{"date": "2025-01-15", "text": "Netflix", "amount": -99.00},
			{"date": "2025-02-15", "text": "Netflix", "amount": -99.00},
			{"date": "2025-03-15", "text": "Netflix", "amount": -99.00},
			{"date": "2025-02-20", "text": "Amazon", "amount": -500.00}
		]
	}`
	drafts, err := ImportTransactionsJSON(writeFile(t, "bank.json", content))
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	d := drafts[0]
	if d.Name != "Netflix" || d.Amount != 99 || d.Currency != "SEK" || !d.IsActive {
		t.Errorf("unexpected draft: %+v", d)
	}
	if d.NextPaymentDate.Format("2006-01-02") != "2025-04-15" {
		t.Errorf("NextPaymentDate = %v, want 2025-04-15", d.NextPaymentDate)
	}

	if _, err := ImportTransactionsJSON(writeFile(t, "bad.json", `{"transactions": [{"date": "15/01/2025"}]}`)); err == nil {
		t.Error("expected error for bad date")
	}
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "a.csv")
	jsonPath := filepath.Join(dir, "b.data")
	txtPath := filepath.Join(dir, "c.txt")
	os.WriteFile(csvPath, []byte("Name,Amount\nFirst,1\n"), 0600)
	os.WriteFile(jsonPath, []byte(`[{"name": "Second", "amount": 2}]`), 0600)
	os.WriteFile(txtPath, []byte("Name,Amount\nThird,3\n"), 0600)

	drafts, err := ImportFiles(context.Background(), []string{csvPath, "json:" + jsonPath, txtPath}, "csv")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, d := range drafts {
		got = append(got, d.Name)
	}
	if !slices.Equal(got, []string{"First", "Second", "Third"}) {
		t.Errorf("ImportFiles order = %v", got)
	}

	if _, err := ImportFiles(context.Background(), []string{txtPath}, ""); err == nil {
		t.Error("expected error when format cannot be determined")
	}
	if _, err := ImportFiles(context.Background(), []string{csvPath, filepath.Join(dir, "missing.csv")}, ""); err == nil {
		t.Error("expected error for missing file")
	}
}
