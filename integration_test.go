package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/subscription-tracker/internal"
	"github.com/xuri/excelize/v2"
)

// testEnv is an isolated data directory and config for one CLI session
type testEnv struct {
	t       *testing.T
	dir     string
	config  string
	dataDir string
}

func newTestEnv(t *testing.T, configContent string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return &testEnv{t: t, dir: dir, config: configPath, dataDir: filepath.Join(dir, "data")}
}

// newLoggedInEnv registers a user so subscription commands can run
func newLoggedInEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t, "currency: USD\nbcrypt_cost: 4\n")
	env.run("register", "ann@example.com", "--password", "secret")
	return env
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	fullArgs := append([]string{"run", ".", args[0], "--config", e.config, "--data-dir", e.dataDir}, args[1:]...)
	cmd := exec.Command("go", fullArgs...)
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	return cmd
}

// run runs the CLI and returns stdout
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	// Capture stdout only (stderr has go download messages)
	output, err := e.command(args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			e.t.Fatalf("CLI failed: %v\nStderr: %s", err, exitErr.Stderr)
		}
		e.t.Fatalf("CLI failed: %v", err)
	}
	return string(output)
}

// runFail runs the CLI expecting a non-zero exit and returns stderr
func (e *testEnv) runFail(args ...string) string {
	e.t.Helper()
	_, err := e.command(args...).Output()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		e.t.Fatalf("expected CLI to fail, got err=%v", err)
	}
	return string(exitErr.Stderr)
}

// list runs the list command with JSON output and parses the result
func (e *testEnv) list(args ...string) internal.JSONOutput {
	e.t.Helper()
	output := e.run(append([]string{"list", "--output", "json"}, args...)...)

	var result internal.JSONOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		e.t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCLI_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, "")
	stderr := env.runFail("list")
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("expected login hint, got: %s", stderr)
	}
}

func TestCLI_AccountLifecycle(t *testing.T) {
	env := newLoggedInEnv(t)

	if out := env.run("whoami"); !strings.Contains(out, "ann <ann@example.com>") {
		t.Errorf("whoami = %q", out)
	}
	env.run("logout")
	env.runFail("whoami")

	if stderr := env.runFail("login", "ann@example.com", "--password", "wrong"); !strings.Contains(stderr, "invalid email or password") {
		t.Errorf("unexpected login error: %s", stderr)
	}
	env.run("login", "ann@example.com", "--password", "secret")

	if stderr := env.runFail("register", "ANN@example.com", "--password", "x"); !strings.Contains(stderr, "already exists") {
		t.Errorf("expected duplicate email error, got: %s", stderr)
	}
}

func TestCLI_AddAndList(t *testing.T) {
	env := newLoggedInEnv(t)
	env.run("add", "Netflix", "--amount", "15", "--next-payment", "2030-01-15")
	env.run("add", "Dropbox", "--amount", "120", "--frequency", "yearly", "--next-payment", "2030-06-01")
	env.run("add", "Gym", "--amount", "40", "--category", "Health & Fitness", "--inactive")

	result := env.list()
	if result.Summary.Count != 3 || result.Summary.ActiveCount != 2 {
		t.Errorf("expected 3 subscriptions (2 active), got %+v", result.Summary)
	}
	// Netflix 15 + Dropbox 120/12; the paused gym does not count
	if result.Summary.MonthlyTotal != 25 {
		t.Errorf("expected monthly total 25, got %v", result.Summary.MonthlyTotal)
	}
	if result.Summary.YearlyTotal != 300 {
		t.Errorf("expected yearly total 300, got %v", result.Summary.YearlyTotal)
	}
	if result.Summary.Currency != "USD" {
		t.Errorf("expected USD, got %s", result.Summary.Currency)
	}

	categories := make(map[string]string)
	for _, sub := range result.Subscriptions {
		categories[sub.Name] = sub.Category
	}
	if categories["Netflix"] != "Entertainment" || categories["Dropbox"] != "Cloud Storage" {
		t.Errorf("expected suggested categories, got %v", categories)
	}

	active := env.list("--show", "active")
	if active.Summary.Count != 2 {
		t.Errorf("expected 2 active subscriptions, got %d", active.Summary.Count)
	}

	sorted := env.list("--sort", "amount", "--order", "desc")
	if sorted.Subscriptions[0].Name != "Dropbox" {
		t.Errorf("expected Dropbox first when sorted by amount desc, got %s", sorted.Subscriptions[0].Name)
	}
}

func TestCLI_AddValidation(t *testing.T) {
	env := newLoggedInEnv(t)
	if stderr := env.runFail("add", "Netflix", "--amount", "0"); !strings.Contains(stderr, "amount must be greater than 0") {
		t.Errorf("unexpected error: %s", stderr)
	}
	if stderr := env.runFail("add", "Netflix", "--amount", "5", "--next-payment", "15/01/2030"); !strings.Contains(stderr, "invalid date") {
		t.Errorf("unexpected error: %s", stderr)
	}
}

func TestCLI_EditTogglePayDelete(t *testing.T) {
	env := newLoggedInEnv(t)
	env.run("add", "Netflix", "--amount", "15", "--next-payment", "2030-01-31")
	id := env.list().Subscriptions[0].ID

	env.run("edit", id[:8], "--amount", "17.5")
	env.run("pay", id)
	env.run("toggle", id)

	sub := env.list().Subscriptions[0]
	if sub.Amount != 17.5 || sub.IsActive {
		t.Errorf("unexpected subscription after edit/toggle: %+v", sub)
	}
	if got := sub.NextPaymentDate.Format("2006-01-02"); got != "2030-02-28" {
		t.Errorf("expected next payment 2030-02-28 after pay, got %s", got)
	}

	env.run("delete", id)
	if result := env.list(); result.Summary.Count != 0 {
		t.Errorf("expected no subscriptions after delete, got %d", result.Summary.Count)
	}
}

func TestCLI_Dashboard(t *testing.T) {
	env := newLoggedInEnv(t)
	env.run("add", "Adobe", "--amount", "2400", "--frequency", "yearly", "--next-payment", "2030-01-01")

	var summary internal.Summary
	output := env.run("dashboard", "--output", "json")
	if err := json.Unmarshal([]byte(output), &summary); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	if summary.MonthlyTotal != 200 || summary.ActiveCount != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.HighSpending {
		t.Error("exactly the threshold should not count as high spending")
	}

	if table := env.run("dashboard"); !strings.Contains(table, "Expense Summary") {
		t.Errorf("expected dashboard title, got: %s", table)
	}
}

func TestCLI_ExportCSV(t *testing.T) {
	env := newLoggedInEnv(t)
	env.run("add", "Netflix", "--amount", "15.99", "--next-payment", "2030-01-15", "--category", "Entertainment")

	out := env.run("export", "--out", "-")
	lines := strings.Split(out, "\n")
	if lines[0] != `"Name","Amount","Currency","Billing Frequency","Next Payment","Category","Status"` {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[1], `"Netflix","15.99","USD","monthly","2030-01-1`) {
		t.Errorf("unexpected export:\n%s", out)
	}
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	src := newLoggedInEnv(t)
	src.run("add", "Netflix", "--amount", "15.99", "--next-payment", "2030-01-15")
	src.run("add", "Spotify", "--amount", "10", "--next-payment", "2030-01-20", "--inactive")

	for _, format := range []string{"csv", "json", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(src.dir, "export."+format)
			src.run("export", "--format", format, "--out", path)

			if format == "xlsx" {
				f, err := excelize.OpenFile(path)
				if err != nil {
					t.Fatalf("failed to open exported workbook: %v", err)
				}
				rows, _ := f.GetRows(f.GetSheetName(0))
				f.Close()
				if len(rows) != 3 {
					t.Errorf("expected 3 rows in workbook, got %d", len(rows))
				}
			}

			dst := newLoggedInEnv(t)
			dst.run("import", path)
			result := dst.list()
			if result.Summary.Count != 2 || result.Summary.ActiveCount != 1 {
				t.Errorf("expected 2 imported subscriptions (1 active), got %+v", result.Summary)
			}
		})
	}
}

func TestCLI_ImportDryRun(t *testing.T) {
	env := newLoggedInEnv(t)
	path := env.writeFile("subs.csv", "Name,Amount,Next Payment\nNetflix,15.99,2030-01-15\n")

	out := env.run("import", "--dry-run", path)
	if !strings.Contains(out, "Netflix") || !strings.Contains(out, "Dry run") {
		t.Errorf("unexpected dry run output: %s", out)
	}
	if result := env.list(); result.Summary.Count != 0 {
		t.Errorf("dry run saved %d subscriptions", result.Summary.Count)
	}
}

func TestCLI_ImportRejectsInvalidFile(t *testing.T) {
	env := newLoggedInEnv(t)
	path := env.writeFile("subs.csv", "Name,Amount,Next Payment\nNetflix,15.99,2030-01-15\nBroken,0,2030-01-15\n")

	env.runFail("import", path)
	if result := env.list(); result.Summary.Count != 0 {
		t.Errorf("expected nothing imported, got %d", result.Summary.Count)
	}
}

func TestCLI_ImportTransactions(t *testing.T) {
	env := newLoggedInEnv(t)
	statement := env.writeFile("bank.data", `{
		"currency": "SEK",
		"transactions": [
			{"date": "2025-01-15", "text": "Netflix", "amount": -99},
			{"date": "2025-02-15", "text": "Netflix", "amount": -99},
			{"date": "2025-03-15", "text": "Netflix", "amount": -99},
			{"date": "2025-01-10", "text": "Grocery Store", "amount": -150},
			{"date": "2025-02-12", "text": "Grocery Store", "amount": -300}
		]
	}`)

	env.run("import", "transactions:"+statement)
	result := env.list()
	if result.Summary.Count != 1 {
		t.Fatalf("expected 1 detected subscription, got %d", result.Summary.Count)
	}
	sub := result.Subscriptions[0]
	if sub.Name != "Netflix" || sub.Currency != "SEK" || sub.Amount != 99 || sub.Category != "Entertainment" {
		t.Errorf("unexpected imported subscription: %+v", sub)
	}
}

func TestCLI_KnownPatternsFromConfig(t *testing.T) {
	env := newTestEnv(t, `
currency: USD
bcrypt_cost: 4
known:
  - pattern: "^acme"
    category: Utilities
`)
	env.run("register", "ann@example.com", "--password", "secret")
	env.run("add", "ACME Power", "--amount", "40", "--next-payment", "2030-01-01")

	if sub := env.list().Subscriptions[0]; sub.Category != "Utilities" {
		t.Errorf("expected category from config, got %s", sub.Category)
	}
	if out := env.run("categories", "--available"); !strings.Contains(out, "* Utilities") {
		t.Errorf("expected Utilities marked as used, got: %s", out)
	}
}

func TestCLI_InvalidConfig(t *testing.T) {
	env := newTestEnv(t, "backend: mongo\n")
	if stderr := env.runFail("whoami"); !strings.Contains(stderr, "backend must be one of") {
		t.Errorf("unexpected error: %s", stderr)
	}
}

func TestCLI_SQLiteBackend(t *testing.T) {
	env := newTestEnv(t, "backend: sqlite\ncurrency: USD\nbcrypt_cost: 4\n")
	env.run("register", "ann@example.com", "--password", "secret")
	env.run("add", "Netflix", "--amount", "15", "--next-payment", "2030-01-15")

	if _, err := os.Stat(filepath.Join(env.dataDir, "tracker.db")); err != nil {
		t.Errorf("expected sqlite database: %v", err)
	}
	if result := env.list(); result.Summary.Count != 1 {
		t.Errorf("expected 1 subscription, got %d", result.Summary.Count)
	}
}
