// Package main provides the wilayah command line tool.
//
// It lists and fetches Indonesian administrative regions from a configured
// source and can serve the same queries over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jacentio/wilayah/config"
	"github.com/jacentio/wilayah/internal/logging"
	"github.com/jacentio/wilayah/loader"
	"github.com/jacentio/wilayah/service"
	"github.com/jacentio/wilayah/store"
)

const (
	Version = "0.1.0"
	appName = "wilayah"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds global flags and the state built from them before a
// subcommand runs.
type cli struct {
	configPath string
	source     string
	dataPath   string
	logLevel   string

	stdout io.Writer
	stderr io.Writer

	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	service  *service.Service
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Query the Indonesian administrative hierarchy",
		Long: `wilayah lists and fetches provinces, cities, districts and villages.

Reference data is loaded once at startup from the embedded sample, a CSV
directory, a SQLite database or DynamoDB tables. Output is JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help":
				return nil
			}
			return c.setup(cmd.Context())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&c.source, "source", "", "Data source: embedded, csv, sqlite or dynamodb")
	cmd.PersistentFlags().StringVar(&c.dataPath, "data", "", "CSV directory or SQLite file (implies csv when no source is set)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		c.provincesCmd(),
		c.citiesCmd(),
		c.districtsCmd(),
		c.villagesCmd(),
		c.provinceCmd(),
		c.cityCmd(),
		c.districtCmd(),
		c.snapshotCmd(),
		c.serveCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// setup loads configuration, applies flag overrides and builds the service.
func (c *cli) setup(ctx context.Context) error {
	cfg := config.DefaultConfig()
	if c.configPath != "" {
		loaded, err := config.LoadFromFile(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	if c.source != "" {
		cfg.Source.Type = c.source
	}
	if c.dataPath != "" {
		switch cfg.Source.Type {
		case config.SourceSQLite:
			cfg.Source.Path = c.dataPath
		case config.SourceCSV:
			cfg.Source.Dir = c.dataPath
		case config.SourceEmbedded, "":
			// --data without --source selects a CSV directory
			if c.source != "" {
				return fmt.Errorf("--data cannot be used with the %s source", config.SourceEmbedded)
			}
			cfg.Source.Type = config.SourceCSV
			cfg.Source.Dir = c.dataPath
		default:
			return fmt.Errorf("--data cannot be used with the %s source", cfg.Source.Type)
		}
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, c.stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	loaders, err := loader.FromConfig(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	s, err := store.New(ctx, loaders, store.WithLogger(logger))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.config = cfg
	c.logger = logger
	c.registry = reg
	c.service = service.New(s,
		service.WithLogger(logger),
		service.WithRegisterer(reg),
		service.WithHydrateConfig(cfg.Hydrate.Engine()),
	)
	return nil
}

// print writes v as indented JSON.
func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
