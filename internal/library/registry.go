package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"paperdash/internal/store"
)

const registrySchemaVersion = 1

var ErrCollectionNotFound = errors.New("collection not found")

// SavedCollection is locally cached metadata used to pre-fill future manifest
// submissions. Collections are upserted by exact name and never deleted.
type SavedCollection struct {
	Name              string `json:"name"`
	Year              string `json:"year"`
	Authors           string `json:"authors,omitempty"`
	DefaultSourceType string `json:"default_source_type,omitempty"`
	UpdatedAt         string `json:"updated_at"`
}

type Registry struct {
	SchemaVersion int               `json:"schema_version"`
	UpdatedAt     string            `json:"updated_at"`
	Settings      Settings          `json:"settings,omitempty"`
	Collections   []SavedCollection `json:"collections"`
}

type UpsertCollectionOptions struct {
	ConfigPath        string
	Name              string
	Year              string
	Authors           string
	DefaultSourceType string
}

type UpsertCollectionResult struct {
	Collection SavedCollection
	Created    bool
}

func normalizeConfigPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultConfigPath
	}
	return p
}

// EnsureRegistry loads the registry, creating it with defaults when missing.
// The second return reports whether a new file was written.
func EnsureRegistry(configPath string) (Registry, bool, error) {
	path := normalizeConfigPath(configPath)
	reg, err := loadRegistry(path)
	if err == nil {
		return reg, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Registry{}, false, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	reg = Registry{
		SchemaVersion: registrySchemaVersion,
		UpdatedAt:     now,
		Settings:      defaultSettings(),
		Collections:   []SavedCollection{},
	}
	if err := saveRegistry(path, reg); err != nil {
		return Registry{}, false, err
	}
	return reg, true, nil
}

func UpsertCollection(opts UpsertCollectionOptions) (UpsertCollectionResult, error) {
	configPath := normalizeConfigPath(opts.ConfigPath)
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return UpsertCollectionResult{}, err
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return UpsertCollectionResult{}, fmt.Errorf("collection name is required")
	}
	if strings.TrimSpace(opts.Year) == "" {
		return UpsertCollectionResult{}, fmt.Errorf("collection year is required")
	}

	col := SavedCollection{
		Name:              name,
		Year:              strings.TrimSpace(opts.Year),
		Authors:           strings.TrimSpace(opts.Authors),
		DefaultSourceType: strings.TrimSpace(opts.DefaultSourceType),
		UpdatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	created := true
	for i := range reg.Collections {
		if reg.Collections[i].Name == name {
			reg.Collections[i] = col
			created = false
			break
		}
	}
	if created {
		reg.Collections = append(reg.Collections, col)
	}

	sort.Slice(reg.Collections, func(i, j int) bool {
		return reg.Collections[i].Name < reg.Collections[j].Name
	})
	reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := saveRegistry(configPath, reg); err != nil {
		return UpsertCollectionResult{}, err
	}

	return UpsertCollectionResult{Collection: col, Created: created}, nil
}

func ListCollections(configPath string) ([]SavedCollection, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return nil, err
	}
	out := append([]SavedCollection(nil), reg.Collections...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// FindCollection matches by exact name.
func FindCollection(configPath, name string) (SavedCollection, error) {
	reg, _, err := EnsureRegistry(configPath)
	if err != nil {
		return SavedCollection{}, err
	}
	target := strings.TrimSpace(name)
	if target == "" {
		return SavedCollection{}, fmt.Errorf("collection name is required")
	}
	for _, c := range reg.Collections {
		if c.Name == target {
			return c, nil
		}
	}
	return SavedCollection{}, fmt.Errorf("%w: %q", ErrCollectionNotFound, target)
}

func loadRegistry(path string) (Registry, error) {
	var reg Registry
	if err := store.ReadJSON(path, &reg); err != nil {
		return Registry{}, err
	}
	if reg.SchemaVersion == 0 {
		reg.SchemaVersion = registrySchemaVersion
	}
	reg.Settings = normalizeSettings(reg.Settings)
	if reg.Collections == nil {
		reg.Collections = []SavedCollection{}
	}
	normalized := make([]SavedCollection, 0, len(reg.Collections))
	for _, c := range reg.Collections {
		c.Name = strings.TrimSpace(c.Name)
		c.Year = strings.TrimSpace(c.Year)
		c.Authors = strings.TrimSpace(c.Authors)
		c.DefaultSourceType = strings.TrimSpace(c.DefaultSourceType)
		if c.Name == "" {
			continue
		}
		normalized = append(normalized, c)
	}
	reg.Collections = normalized
	return reg, nil
}

func saveRegistry(path string, reg Registry) error {
	reg.SchemaVersion = registrySchemaVersion
	if strings.TrimSpace(reg.UpdatedAt) == "" {
		reg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	reg.Settings = normalizeSettings(reg.Settings)
	if reg.Collections == nil {
		reg.Collections = []SavedCollection{}
	}
	if err := store.Mkdir(filepath.Dir(path)); err != nil {
		return err
	}
	return store.WriteJSON(path, reg)
}
