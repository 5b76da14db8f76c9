// Package file stores slot documents as JSON files in a per-user config directory.
package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/repository"
)

// SlotRepo keeps one file per key under Dir.
type SlotRepo struct {
	dir string
}

var _ repository.SlotRepository = (*SlotRepo)(nil)

// NewSlotRepo constructs a file slot rooted at dir. The directory is created lazily.
func NewSlotRepo(dir string) *SlotRepo { return &SlotRepo{dir: dir} }

// DefaultDir returns $XDG_CONFIG_HOME/syncads or ~/.config/syncads.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "syncads")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "syncads")
}

// Path returns the file backing key.
func (r *SlotRepo) Path(key string) string {
	name := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			return c
		}
		return '_'
	}, key)
	return filepath.Join(r.dir, name+".json")
}

// Load reads the file backing key.
func (r *SlotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(r.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrNotFound
	}
	return b, err
}

// Save writes to a temp file and renames it over the old one.
func (r *SlotRepo) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, ".slot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.Path(key))
}

// Delete removes the file backing key.
func (r *SlotRepo) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(r.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close is a no-op.
func (r *SlotRepo) Close() error { return nil }
