/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikeb26/swisspairing-tdbot/tourney"
)

// FileStore keeps each tournament as <dir>/<name>.json. Writes go
// through a temp file and rename so a crash mid-save never truncates
// the prior state.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store.file: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store.file: cannot create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.dir, name+".json")
}

func (fs *FileStore) Load(ctx context.Context, name string) (*tourney.Tournament, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("store.file: %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.file: cannot read %s: %w", name, err)
	}
	t, err := tourney.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store.file: %s: %w", name, err)
	}
	return t, nil
}

func (fs *FileStore) Save(ctx context.Context, name string, t *tourney.Tournament) error {
	if err := validName(name); err != nil {
		return err
	}
	data, err := t.Encode()
	if err != nil {
		return fmt.Errorf("store.file: cannot encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(fs.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("store.file: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store.file: cannot write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.file: cannot close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), fs.path(name)); err != nil {
		return fmt.Errorf("store.file: cannot replace %s: %w", name, err)
	}
	return nil
}

func (fs *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("store.file: cannot list %s: %w", fs.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names, nil
}

func (fs *FileStore) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	err := os.Remove(fs.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("store.file: %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store.file: cannot delete %s: %w", name, err)
	}
	return nil
}
