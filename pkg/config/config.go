// Package config loads and writes the tool configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/sheet"
)

const appDir = "xlrename"

// Config holds defaults for batch operations. Command-line flags override
// individual fields.
type Config struct {
	// Column is the spreadsheet column holding new names.
	Column string `yaml:"column"`
	// StartRow is the 1-indexed first data row in the spreadsheet.
	StartRow int `yaml:"startRow"`
	// Sort is the listing order used to pair entries with spreadsheet rows.
	Sort string `yaml:"sort"`
	// Subfolder is the image subfolder packed into a PDF.
	Subfolder string `yaml:"subfolder"`
	// Extensions are the image extensions packed into PDFs.
	Extensions []string `yaml:"extensions"`
	// DeleteFiles are names removed from each subfolder after packing.
	DeleteFiles []string `yaml:"deleteFiles,omitempty"`
	// JournalPath is the location of the rename journal database.
	JournalPath string `yaml:"journalPath"`
}

// New returns a [Config] with defaults applied.
func New() *Config {
	return &Config{
		Column:      "A",
		StartRow:    1,
		Sort:        string(files.ByName),
		Subfolder:   "images",
		Extensions:  []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp"},
		JournalPath: filepath.Join(configDir(), "journal.db"),
	}
}

// Validate checks field values against the packages that consume them.
func (c *Config) Validate() error {
	_, err := sheet.ColumnIndex(c.Column)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}

	if c.StartRow < 1 {
		return fmt.Errorf("startRow: %w: got %d", sheet.ErrInvalidStartRow, c.StartRow)
	}

	_, err = files.ParseOrder(c.Sort)
	if err != nil {
		return fmt.Errorf("sort: %w", err)
	}

	return nil
}

// GetPath returns the default configuration file location, following
// XDG_CONFIG_HOME with a HOME fallback.
func GetPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}

	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", appDir)
	}

	return filepath.Join(os.TempDir(), appDir)
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := New()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	err = yaml.Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return c, nil
}

// WriteDefault writes the default configuration to path unless a file
// already exists there.
func WriteDefault(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config %q: %w", path, err)
	}

	data, err := yaml.Marshal(New())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	err = os.WriteFile(path, data, 0o644) //nolint:gosec // Not sensitive.
	if err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}

	return nil
}
