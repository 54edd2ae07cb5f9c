// Package loader reads reference data from CSV files, SQLite or DynamoDB
// into store loaders.
//
// Every source applies the same record policy: provinces, cities and
// districts must load or the build fails, while villages are best effort
// and degrade to an empty set with a logged warning.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jacentio/wilayah/config"
	"github.com/jacentio/wilayah/dataset"
	"github.com/jacentio/wilayah/store"
)

// FromConfig returns the loaders for the source described by src.
func FromConfig(ctx context.Context, src config.Source, logger *slog.Logger) (store.Loaders, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("source", src.Type)

	switch src.Type {
	case config.SourceEmbedded, "":
		return NewCSV(dataset.FS(), logger).Loaders(), nil
	case config.SourceCSV:
		return NewCSV(os.DirFS(src.Dir), logger).Loaders(), nil
	case config.SourceSQLite:
		return NewSQLite(src.Path, logger).Loaders(), nil
	case config.SourceDynamoDB:
		client, err := NewDynamoClient(ctx, src.DynamoDB)
		if err != nil {
			return store.Loaders{}, err
		}
		return NewDynamo(client, src.DynamoDB.Tables, logger).Loaders(), nil
	}
	return store.Loaders{}, fmt.Errorf("unknown source type %q", src.Type)
}
