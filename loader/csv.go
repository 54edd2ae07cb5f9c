package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/jacentio/wilayah/store"
)

// CSV file layout, relative to the root of the file system.
const (
	ProvincesFile = "provinces.csv"
	CitiesFile    = "cities.csv"
	DistrictsFile = "districts.csv"
	VillagesDir   = "villages"
)

// CSV loads reference data from CSV files in a file system.
//
// provinces.csv holds code,name,latitude,longitude; cities.csv,
// districts.csv and every *.csv below villages/ hold
// code,parent_code,name,latitude,longitude. A row whose first column is
// "code" is a header and skipped.
type CSV struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewCSV creates a CSV loader reading from fsys.
// If logger is nil, slog.Default() is used.
func NewCSV(fsys fs.FS, logger *slog.Logger) *CSV {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSV{fsys: fsys, logger: logger}
}

// Loaders returns store loaders backed by c.
func (c *CSV) Loaders() store.Loaders {
	return store.Loaders{
		Provinces: store.LoaderFunc[store.Province](c.Provinces),
		Cities:    store.LoaderFunc[store.City](c.Cities),
		Districts: store.LoaderFunc[store.District](c.Districts),
		Villages:  store.LoaderFunc[store.Village](c.Villages),
	}
}

// Provinces reads provinces.csv. Coordinates are mandatory.
func (c *CSV) Provinces(ctx context.Context) (map[string]store.Province, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]store.Province)
	err := readRows(c.fsys, ProvincesFile, func(rec []string) error {
		if len(rec) < 4 {
			return fmt.Errorf("expected 4 columns, got %d", len(rec))
		}
		lat, lng, err := parseCoords(rec[2], rec[3])
		if err != nil {
			return err
		}
		out[rec[0]] = store.Province{Code: rec[0], Name: rec[1], Latitude: lat, Longitude: lng}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cities reads cities.csv. Coordinates are mandatory.
func (c *CSV) Cities(ctx context.Context) (map[string]store.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]store.City)
	err := readRows(c.fsys, CitiesFile, func(rec []string) error {
		if len(rec) < 5 {
			return fmt.Errorf("expected 5 columns, got %d", len(rec))
		}
		lat, lng, err := parseCoords(rec[3], rec[4])
		if err != nil {
			return err
		}
		out[rec[0]] = store.City{Code: rec[0], ProvinceCode: rec[1], Name: rec[2], Latitude: lat, Longitude: lng}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Districts reads districts.csv. Blank or invalid coordinates become 0.
func (c *CSV) Districts(ctx context.Context) (map[string]store.District, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]store.District)
	err := readRows(c.fsys, DistrictsFile, func(rec []string) error {
		if len(rec) < 5 {
			return fmt.Errorf("expected 5 columns, got %d", len(rec))
		}
		out[rec[0]] = store.District{
			Code:      rec[0],
			CityCode:  rec[1],
			Name:      rec[2],
			Latitude:  coordOrZero(rec[3]),
			Longitude: coordOrZero(rec[4]),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Villages reads every *.csv file below villages/.
//
// Villages never fail the build: a missing directory yields no villages,
// an unreadable file is logged and skipped, and rows with fewer than five
// columns are ignored. Blank or invalid coordinates become 0.
func (c *CSV) Villages(ctx context.Context) (map[string]store.Village, error) {
	out := make(map[string]store.Village)

	err := fs.WalkDir(c.fsys, VillagesDir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".csv" {
			return nil
		}

		err = readRows(c.fsys, name, func(rec []string) error {
			if len(rec) < 5 {
				return nil
			}
			out[rec[0]] = store.Village{
				Code:         rec[0],
				DistrictCode: rec[1],
				Name:         rec[2],
				Latitude:     coordOrZero(rec[3]),
				Longitude:    coordOrZero(rec[4]),
			}
			return nil
		})
		if err != nil {
			c.logger.Warn("skipping village file", "file", name, "error", err)
		}
		return nil
	})

	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Warn("village directory not found", "dir", VillagesDir)
		return map[string]store.Village{}, nil
	case err != nil:
		c.logger.Warn("village load failed", "error", err)
		return map[string]store.Village{}, nil
	}
	return out, nil
}

// readRows calls fn for each non-header record of the named file with
// fields trimmed. Errors carry the file name and line number.
func readRows(fsys fs.FS, name string, fn func(rec []string) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true
	r.LazyQuotes = true // names like Desa "Baru" appear unquoted

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if isHeader(rec) {
			continue
		}

		if err := fn(rec); err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%s: line %d: %w", name, line, err)
		}
	}
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(rec[0], "code")
}

func parseCoords(lat, lng string) (float64, float64, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return la, lo, nil
}

func coordOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
