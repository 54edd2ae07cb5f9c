// Package config provides configuration loading for the wilayah commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacentio/wilayah/hydrate"
	"github.com/jacentio/wilayah/internal/logging"
)

// Source types.
const (
	SourceEmbedded = "embedded"
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourceDynamoDB = "dynamodb"
)

// Config represents the complete wilayah configuration.
type Config struct {
	Source  Source        `yaml:"source"`
	Hydrate HydrateConfig `yaml:"hydrate"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// Source selects where reference data is loaded from.
type Source struct {
	// Type is one of embedded, csv, sqlite or dynamodb (default: embedded)
	Type string `yaml:"type"`
	// Dir is the CSV data directory (csv only)
	Dir string `yaml:"dir"`
	// Path is the SQLite database file (sqlite only)
	Path string `yaml:"path"`

	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

// DynamoDBConfig configures the DynamoDB source.
type DynamoDBConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
	// Endpoint overrides the service endpoint (e.g., DynamoDB Local)
	Endpoint string       `yaml:"endpoint"`
	Tables   TablesConfig `yaml:"tables"`
}

// TablesConfig names one DynamoDB table per level.
type TablesConfig struct {
	Provinces string `yaml:"provinces"`
	Cities    string `yaml:"cities"`
	Districts string `yaml:"districts"`
	Villages  string `yaml:"villages"`
}

// HydrateConfig configures fan-out during fetches.
type HydrateConfig struct {
	// Workers bounds concurrent sibling hydration (0 = GOMAXPROCS)
	Workers int `yaml:"workers"`
	// MinFanOut is the smallest sibling count hydrated concurrently
	MinFanOut int `yaml:"min_fan_out"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BasePath is stripped from request paths (e.g., an API Gateway stage)
	BasePath string `yaml:"base_path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: Source{
			Type: SourceEmbedded,
			DynamoDB: DynamoDBConfig{
				Tables: TablesConfig{
					Provinces: "wilayah-provinces",
					Cities:    "wilayah-cities",
					Districts: "wilayah-districts",
					Villages:  "wilayah-villages",
				},
			},
		},
		Hydrate: HydrateConfig{
			Workers:   0, // GOMAXPROCS
			MinFanOut: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load returns the defaults, or the file at path if path is non-empty,
// with environment overrides applied and validated.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		var err error
		if config, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from WILAYAH_* environment variables.
// Unset variables leave the field unchanged.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"WILAYAH_SOURCE":            &c.Source.Type,
		"WILAYAH_DATA_DIR":          &c.Source.Dir,
		"WILAYAH_SQLITE_PATH":       &c.Source.Path,
		"WILAYAH_DYNAMODB_REGION":   &c.Source.DynamoDB.Region,
		"WILAYAH_DYNAMODB_PROFILE":  &c.Source.DynamoDB.Profile,
		"WILAYAH_DYNAMODB_ENDPOINT": &c.Source.DynamoDB.Endpoint,
		"WILAYAH_TABLE_PROVINCES":   &c.Source.DynamoDB.Tables.Provinces,
		"WILAYAH_TABLE_CITIES":      &c.Source.DynamoDB.Tables.Cities,
		"WILAYAH_TABLE_DISTRICTS":   &c.Source.DynamoDB.Tables.Districts,
		"WILAYAH_TABLE_VILLAGES":    &c.Source.DynamoDB.Tables.Villages,
		"WILAYAH_LOG_LEVEL":         &c.Log.Level,
		"WILAYAH_LOG_FORMAT":        &c.Log.Format,
		"WILAYAH_ADDR":              &c.Server.Addr,
		"WILAYAH_BASE_PATH":         &c.Server.BasePath,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*field = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"WILAYAH_HYDRATE_WORKERS":     &c.Hydrate.Workers,
		"WILAYAH_HYDRATE_MIN_FAN_OUT": &c.Hydrate.MinFanOut,
	}
	for name, field := range ints {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*field = n
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceEmbedded, "":
	case SourceCSV:
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for csv source")
		}
	case SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for sqlite source")
		}
	case SourceDynamoDB:
		t := c.Source.DynamoDB.Tables
		if t.Provinces == "" || t.Cities == "" || t.Districts == "" || t.Villages == "" {
			return fmt.Errorf("source.dynamodb.tables must name all four tables")
		}
	default:
		return fmt.Errorf("unknown source.type %q", c.Source.Type)
	}

	if c.Hydrate.Workers < 0 {
		return fmt.Errorf("hydrate.workers must not be negative")
	}
	if c.Hydrate.Workers > hydrate.MaxWorkers {
		return fmt.Errorf("hydrate.workers must be at most %d", hydrate.MaxWorkers)
	}
	if c.Hydrate.MinFanOut < 0 {
		return fmt.Errorf("hydrate.min_fan_out must not be negative")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Engine returns the hydrate engine configuration.
func (h HydrateConfig) Engine() hydrate.Config {
	return hydrate.Config{Workers: h.Workers, MinFanOut: h.MinFanOut}
}
