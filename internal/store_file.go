package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// FileStore keeps one JSON document per user plus a users.json file.
type FileStore struct {
	dir string
	log *slog.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func (s *FileStore) subscriptionsPath(userID string) string {
	return filepath.Join(s.dir, "subscriptions-"+unsafeFileChars.ReplaceAllString(userID, "_")+".json")
}

func (s *FileStore) usersPath() string {
	return filepath.Join(s.dir, "users.json")
}

func (s *FileStore) LoadSubscriptions(_ context.Context, userID string) ([]Subscription, error) {
	var subs []Subscription
	if err := readJSONFile(s.subscriptionsPath(userID), &subs); err != nil {
		return nil, fmt.Errorf("loading subscriptions for %s: %w", userID, err)
	}
	return subs, nil
}

func (s *FileStore) SaveSubscriptions(_ context.Context, userID string, subs []Subscription) error {
	if subs == nil {
		subs = []Subscription{}
	}
	if err := writeJSONFile(s.subscriptionsPath(userID), subs); err != nil {
		return fmt.Errorf("saving subscriptions for %s: %w", userID, err)
	}
	s.log.Debug("saved subscriptions", "user_id", userID, "count", len(subs))
	return nil
}

func (s *FileStore) LoadUsers(_ context.Context) ([]Account, error) {
	var users []Account
	if err := readJSONFile(s.usersPath(), &users); err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	return users, nil
}

func (s *FileStore) SaveUsers(_ context.Context, users []Account) error {
	if users == nil {
		users = []Account{}
	}
	if err := writeJSONFile(s.usersPath(), users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// readJSONFile decodes path into v. A missing file leaves v untouched.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces path atomically via a temp file and rename.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
