package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = "cryptogains.yaml"

// Config represents the top-level cryptogains.yaml configuration.
type Config struct {
	Tax    TaxConfig    `yaml:"tax"`
	Ledger LedgerConfig `yaml:"ledger"`
	Report ReportConfig `yaml:"report"`
	Log    LogConfig    `yaml:"log"`
	Git    GitConfig    `yaml:"git"`
}

// TaxConfig selects what is calculated.
type TaxConfig struct {
	TaxYear          int      `yaml:"tax_year"` // 0 reports every year
	FiatCurrency     string   `yaml:"fiat_currency"`
	Method           string   `yaml:"method"` // fifo or lifo
	ExpenditureTypes []string `yaml:"expenditure_types"`
}

// LedgerConfig locates the transaction ledger.
type LedgerConfig struct {
	Dir           string `yaml:"dir"`
	SortField     string `yaml:"sort_field"`
	SortDirection string `yaml:"sort_direction"`
}

// ReportConfig controls exported reports.
type ReportConfig struct {
	Dir        string `yaml:"dir"`
	DateFormat string `yaml:"date_format"` // Go time layout
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a cryptogains.yaml file from disk. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, but a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Tax: TaxConfig{
			FiatCurrency:     "USD",
			Method:           "fifo",
			ExpenditureTypes: []string{"purchase", "donation", "gift"},
		},
		Ledger: LedgerConfig{
			Dir:           "ledger",
			SortField:     "timestamp",
			SortDirection: "ascending",
		},
		Report: ReportConfig{
			Dir:        "reports",
			DateFormat: "01/02/2006",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AuthorName:  "cryptogains",
			AuthorEmail: "cryptogains@localhost",
		},
	}
}

// Resolve makes relative ledger and report directories relative to root.
func (c *Config) Resolve(root string) {
	if !filepath.IsAbs(c.Ledger.Dir) {
		c.Ledger.Dir = filepath.Join(root, c.Ledger.Dir)
	}
	if !filepath.IsAbs(c.Report.Dir) {
		c.Report.Dir = filepath.Join(root, c.Report.Dir)
	}
}
