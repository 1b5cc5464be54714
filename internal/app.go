package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"
)

// App bundles the pieces a CLI invocation needs.
type App struct {
	Config   *Config
	Store    Store
	Accounts *Accounts
	Log      *slog.Logger

	// Currency is the display currency for totals
	Currency string
	Locale   language.Tag
}

// OpenApp validates cfg, builds the logger and opens the configured store.
func OpenApp(ctx context.Context, cfg *Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Backend, cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}

	code, locale := DetectSystemCurrency()
	if cfg.Currency != "" {
		code = cfg.Currency
	}
	if code == "" {
		code = DefaultCurrency
	}

	log.Debug("app ready", "data_dir", cfg.DataDir, "backend", cfg.Backend, "currency", code)
	return &App{
		Config:   cfg,
		Store:    store,
		Accounts: NewAccounts(store, cfg.DataDir, cfg.BcryptCost, log),
		Log:      log,
		Currency: code,
		Locale:   locale,
	}, nil
}

// Service returns the subscription service of the logged in user.
func (a *App) Service(opts ...ServiceOption) (*Service, error) {
	user, err := a.Accounts.Current()
	if err != nil {
		return nil, err
	}
	opts = append([]ServiceOption{WithCategorySuggester(a.Config.SuggestCategory)}, opts...)
	return NewService(a.Store, user.ID, a.Log, opts...), nil
}

// OutputOptions returns table formatting settings relative to now.
func (a *App) OutputOptions(now time.Time) OutputOptions {
	return OutputOptions{
		Money:    NewMoneyFormatter(a.Locale),
		Currency: a.Currency,
		Now:      now,
	}
}

func (a *App) Close() error {
	return a.Store.Close()
}
