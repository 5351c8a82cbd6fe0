package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"asset-grader/models"
)

// ErrNoRules is returned when no rules file has been published yet.
var ErrNoRules = errors.New("no rules published")

// RulesFileStore keeps the rules file on local disk. Saves write a new file
// and rename it over the old one, so readers see either the previous or the
// new rules and never a partial write.
type RulesFileStore struct {
	path string
}

// NewRulesFileStore creates a store for the file at path.
func NewRulesFileStore(path string) *RulesFileStore {
	return &RulesFileStore{path: path}
}

// Path returns the file location.
func (s *RulesFileStore) Path() string {
	return s.path
}

// Save writes file as indented JSON.
func (s *RulesFileStore) Save(_ context.Context, file *models.RulesFile) error {
	if file == nil {
		return errors.New("rules: nil rules file")
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("rules: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("rules: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rules-*.json")
	if err != nil {
		return fmt.Errorf("rules: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("rules: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("rules: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("rules: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("rules: replace %q: %w", s.path, err)
	}
	return nil
}

// Load reads the current rules file. A missing file returns ErrNoRules.
func (s *RulesFileStore) Load(_ context.Context) (*models.RulesFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("rules: %q: %w", s.path, ErrNoRules)
	}
	if err != nil {
		return nil, fmt.Errorf("rules: read %q: %w", s.path, err)
	}
	return decodeRules(data)
}

func decodeRules(data []byte) (*models.RulesFile, error) {
	var file models.RulesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("rules: decode: %w", err)
	}
	if file.Version == "" {
		return nil, errors.New("rules: decode: missing version")
	}
	if file.Categories == nil {
		file.Categories = make(map[string]*models.CategoryRules)
	}
	return &file, nil
}
