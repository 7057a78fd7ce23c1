package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"raffler/models"

	"gopkg.in/yaml.v3"
)

// snapshotDocument is the on-disk layout of the active set.
type snapshotDocument struct {
	Giveaways []*models.Giveaway `yaml:"giveaways"`
}

// FileStore persists the whole active set as one YAML document. Writes go to
// a temp file in the same directory followed by a rename, so a crash mid-write
// never leaves a truncated snapshot behind.
type FileStore struct {
	path string
}

// NewFileStore creates a snapshot store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted active set. A missing or empty file yields an
// empty set; anything else that fails is an error, and the caller treats it
// as fatal rather than starting with partial state.
func (f *FileStore) Load() ([]*models.Giveaway, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", f.path, err)
	}
	return doc.Giveaways, nil
}

// Save writes the active set wholesale, replacing the previous snapshot.
func (f *FileStore) Save(giveaways []*models.Giveaway) error {
	data, err := yaml.Marshal(snapshotDocument{Giveaways: giveaways})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot %s: %w", f.path, err)
	}
	return nil
}
