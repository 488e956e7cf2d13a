// Package config loads the YAML configuration for the cleaning tool.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tool configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Repair   RepairConfig   `yaml:"repair"`
	Filter   FilterConfig   `yaml:"filter"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Registry RegistryConfig `yaml:"registry"`
	Export   ExportConfig   `yaml:"export"`
}

// LoggingConfig contains log file settings. Console logging is always on.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// RepairConfig toggles the line repair stage.
type RepairConfig struct {
	Disabled bool `yaml:"disabled"`
}

// FilterConfig holds the default vessel allow-list. The CLI -vessels flag
// and -vessel-file both override it.
type FilterConfig struct {
	Vessels []uint32 `yaml:"vessels"`
	// ListFile points at a saved allow-list (filter.SaveList format). Ignored
	// when Vessels is non-empty.
	ListFile string `yaml:"list_file"`
}

// ArchiveConfig contains SQLite archive settings.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// RegistryConfig contains vessel registry settings.
type RegistryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ExportConfig contains dataset export settings.
type ExportConfig struct {
	JSONPath string `yaml:"json_path"`
	CSVPath  string `yaml:"csv_path"`
}

// Load loads configuration from a YAML file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Enabled: false, Dir: "data/logs", RetentionDays: 7},
		Archive: ArchiveConfig{Enabled: false, DBPath: "data/fixes.db"},
		Registry: RegistryConfig{
			Enabled: false,
			Dir:     "data/registry",
		},
	}
}

// Print displays the configuration.
func (c *Config) Print() {
	if c.Repair.Disabled {
		fmt.Println("Repair: disabled")
	}
	if len(c.Filter.Vessels) > 0 {
		fmt.Printf("Filter: %d vessels from config\n", len(c.Filter.Vessels))
	} else if c.Filter.ListFile != "" {
		fmt.Printf("Filter: list file %s\n", c.Filter.ListFile)
	}
	if c.Archive.Enabled {
		fmt.Printf("Archive: %s\n", c.Archive.DBPath)
	}
	if c.Registry.Enabled {
		fmt.Printf("Registry: %s\n", c.Registry.Dir)
	}
	if c.Export.JSONPath != "" {
		fmt.Printf("Export JSON: %s\n", c.Export.JSONPath)
	}
	if c.Export.CSVPath != "" {
		fmt.Printf("Export CSV: %s\n", c.Export.CSVPath)
	}
	if c.Logging.Enabled {
		fmt.Printf("Log files: %s (retention %dd)\n", c.Logging.Dir, c.Logging.RetentionDays)
	}
}
