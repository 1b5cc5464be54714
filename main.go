package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/subscription-tracker/internal"
)

// GlobalParams are accepted by every command.
type GlobalParams struct {
	Config  string `descr:"Path to config file (default ~/.subscription-tracker/config.yaml)" optional:"true"`
	DataDir string `descr:"Data directory, overrides the config file" optional:"true"`
}

// OutputParams select table or JSON output.
type OutputParams struct {
	Output string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	boa.CmdT[boa.NoParams]{
		Use:   "subscription-tracker",
		Short: "Track recurring subscriptions and what they cost",
		Long: "Keeps a personal list of subscriptions with their billing cadence and next payment date, " +
			"and reports monthly and yearly spending, spending per category and upcoming payments.",
		SubCmds: boa.SubCmds(
			registerCmd(ctx),
			loginCmd(ctx),
			logoutCmd(ctx),
			whoamiCmd(ctx),
			addCmd(ctx),
			editCmd(ctx),
			deleteCmd(ctx),
			toggleCmd(ctx),
			payCmd(ctx),
			listCmd(ctx),
			dashboardCmd(ctx),
			upcomingCmd(ctx),
			categoriesCmd(ctx),
			exportCmd(ctx),
			importCmd(ctx),
			configCmd(),
		),
	}.Run()
}

// loadConfig reads the config file, then .env files and environment overrides.
func loadConfig(g GlobalParams) *internal.Config {
	if err := internal.LoadEnvFiles(".env"); err != nil {
		fail(err)
	}

	path, required := g.Config, g.Config != ""
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfigOrDefault(path, required)
	if err != nil {
		fail(fmt.Errorf("loading config: %w", err))
	}

	cfg.ApplyEnv(os.Getenv)
	if g.DataDir != "" {
		cfg.DataDir = g.DataDir
	}
	return cfg
}

// openApp loads the configuration and opens the store. Callers close it.
func openApp(ctx context.Context, g GlobalParams) *internal.App {
	app, err := internal.OpenApp(ctx, loadConfig(g), os.Stderr)
	if err != nil {
		fail(err)
	}
	return app
}

// openService opens the app and the logged in user's subscriptions.
func openService(ctx context.Context, g GlobalParams) (*internal.App, *internal.Service) {
	app := openApp(ctx, g)
	svc, err := app.Service()
	if err != nil {
		app.Close()
		if errors.Is(err, internal.ErrNotLoggedIn) {
			fail(fmt.Errorf("%w (run 'subscription-tracker login' or 'register' first)", err))
		}
		fail(err)
	}
	return app, svc
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var stdin = bufio.NewReader(os.Stdin)

// prompt reads one line from stdin after printing label to stderr.
func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// parseDate accepts YYYY-MM-DD in the local time zone.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
