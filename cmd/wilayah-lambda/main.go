// Package main provides the AWS Lambda entry point for the query API.
//
// The reference store is built once per cold start from the configuration
// file named by WILAYAH_CONFIG (if set) and WILAYAH_* environment variables.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/jacentio/wilayah/config"
	"github.com/jacentio/wilayah/gateway"
	"github.com/jacentio/wilayah/internal/logging"
	"github.com/jacentio/wilayah/loader"
	"github.com/jacentio/wilayah/service"
	"github.com/jacentio/wilayah/store"
)

func main() {
	_ = godotenv.Load(".env")

	h, err := newHandler(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	lambda.Start(h.HandleRequest)
}

func newHandler(ctx context.Context) (*gateway.Handler, error) {
	cfg, err := config.Load(os.Getenv("WILAYAH_CONFIG"))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	loaders, err := loader.FromConfig(ctx, cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	s, err := store.New(ctx, loaders, store.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	svc := service.New(s,
		service.WithLogger(logger),
		service.WithHydrateConfig(cfg.Hydrate.Engine()),
	)
	h := gateway.NewHandler(svc, logger)
	h.BasePath = cfg.Server.BasePath
	return h, nil
}
