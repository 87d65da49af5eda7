package reportstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores reports as files in a single directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed and returns a Local store.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("report directory not specified")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the backing directory.
func (l *Local) Dir() string {
	return l.dir
}

// Put writes data atomically: a temp file in the same directory is renamed
// into place so readers never observe a partial report.
func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing report: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.dir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving report into place: %w", err)
	}
	return nil
}

// Get reads the report stored under key.
func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

// Delete removes the report stored under key.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}
