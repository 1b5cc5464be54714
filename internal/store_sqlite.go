package internal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps users and subscriptions in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteStore(ctx context.Context, dbPath string, log *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Debug("opened sqlite store", "path", dbPath)
	return &SQLiteStore{db: db, log: log}, nil
}

func runMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const sqliteTime = time.RFC3339Nano

func parseSQLiteTime(v string) (time.Time, error) {
	t, err := time.Parse(sqliteTime, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", v, err)
	}
	return t, nil
}

func (s *SQLiteStore) LoadSubscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount, currency, billing_frequency, next_payment_date,
		       category, description, is_active, created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var (
			sub                    Subscription
			freq                   string
			next, created, updated string
			active                 int
		)
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.Currency, &freq, &next,
			&sub.Category, &sub.Description, &active, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		sub.BillingFrequency = BillingFrequency(freq)
		sub.IsActive = active != 0
		if sub.NextPaymentDate, err = parseSQLiteTime(next); err != nil {
			return nil, err
		}
		if sub.CreatedAt, err = parseSQLiteTime(created); err != nil {
			return nil, err
		}
		if sub.UpdatedAt, err = parseSQLiteTime(updated); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}

// SaveSubscriptions replaces the user's rows with subs in one transaction.
func (s *SQLiteStore) SaveSubscriptions(ctx context.Context, userID string, subs []Subscription) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear subscriptions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subscriptions (id, user_id, position, name, amount, currency, billing_frequency,
		                           next_payment_date, category, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sub := range subs {
		active := 0
		if sub.IsActive {
			active = 1
		}
		if _, err := stmt.ExecContext(ctx, sub.ID, userID, i, sub.Name, sub.Amount, sub.Currency,
			string(sub.BillingFrequency), sub.NextPaymentDate.Format(sqliteTime), sub.Category,
			sub.Description, active, sub.CreatedAt.Format(sqliteTime), sub.UpdatedAt.Format(sqliteTime)); err != nil {
			return fmt.Errorf("insert subscription %s: %w", sub.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("saved subscriptions", "user_id", userID, "count", len(subs))
	return nil
}

func (s *SQLiteStore) LoadUsers(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email, name, password_hash, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []Account
	for rows.Next() {
		var (
			acc     Account
			created string
		)
		if err := rows.Scan(&acc.ID, &acc.Email, &acc.Name, &acc.PasswordHash, &created); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if acc.CreatedAt, err = parseSQLiteTime(created); err != nil {
			return nil, err
		}
		users = append(users, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) SaveUsers(ctx context.Context, users []Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt.Format(sqliteTime)); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
