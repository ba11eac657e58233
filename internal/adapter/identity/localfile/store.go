package localfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tilefarm/internal/app/ports"
)

// Store keeps the signed-in user record in one JSON file, the way a browser
// would keep it under a fixed storage key.
type Store struct {
	Path string
}

func (s Store) Current(_ context.Context) (ports.UserRecord, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return ports.UserRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.UserRecord{}, fmt.Errorf("read user record: %w", err)
	}
	var u ports.UserRecord
	if err := json.Unmarshal(data, &u); err != nil {
		return ports.UserRecord{}, fmt.Errorf("decode user record: %w", err)
	}
	return u, nil
}

func (s Store) SignIn(_ context.Context, user ports.UserRecord) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

func (s Store) SignOut(_ context.Context) error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove user record: %w", err)
	}
	return nil
}
