package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// SessionFileName is the file in the data directory holding the logged in user.
const SessionFileName = "session.json"

// Accounts handles local registration and login. The session survives
// between CLI invocations as a small JSON file.
type Accounts struct {
	store       Store
	sessionPath string
	cost        int
	now         func() time.Time
	log         *slog.Logger
}

// NewAccounts keeps its session in dataDir. cost is the bcrypt cost;
// values below bcrypt.MinCost select bcrypt.DefaultCost.
func NewAccounts(store Store, dataDir string, cost int, log *slog.Logger) *Accounts {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{
		store:       store,
		sessionPath: filepath.Join(dataDir, SessionFileName),
		cost:        cost,
		now:         time.Now,
		log:         log.With("component", "accounts"),
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}

// Register creates an account and logs it in.
func (a *Accounts) Register(ctx context.Context, email, password, name string) (User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if password == "" {
		return User{}, ErrWeakPassword
	}

	users, err := a.store.LoadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return User{}, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	acc := Account{
		User: User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			CreatedAt: a.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if err := a.store.SaveUsers(ctx, append(users, acc)); err != nil {
		return User{}, err
	}
	a.log.Info("registered user", "user_id", acc.ID)

	if err := a.saveSession(acc.User); err != nil {
		return User{}, err
	}
	return acc.User, nil
}

// Login checks the credentials and records the session.
func (a *Accounts) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := a.store.LoadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}
		if err := a.saveSession(u.User); err != nil {
			return User{}, err
		}
		a.log.Info("logged in", "user_id", u.ID)
		return u.User, nil
	}
	return User{}, ErrInvalidCredentials
}

// Logout forgets the current session. Logging out twice is not an error.
func (a *Accounts) Logout() error {
	if err := os.Remove(a.sessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Current returns the logged in user.
func (a *Accounts) Current() (User, error) {
	var u User
	if _, err := os.Stat(a.sessionPath); errors.Is(err, fs.ErrNotExist) {
		return User{}, ErrNotLoggedIn
	}
	if err := readJSONFile(a.sessionPath, &u); err != nil {
		return User{}, fmt.Errorf("reading session: %w", err)
	}
	if u.ID == "" {
		return User{}, ErrNotLoggedIn
	}
	return u, nil
}

func (a *Accounts) saveSession(u User) error {
	if err := os.MkdirAll(filepath.Dir(a.sessionPath), 0755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := writeJSONFile(a.sessionPath, u); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
