package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/jacentio/wilayah/store"
)

// SQLite loads reference data from a SQLite database with the tables
// provinces(code, name, latitude, longitude) and
// cities|districts|villages(code, <parent>_code, name, latitude, longitude).
// The database is opened read-only for each load and closed on return.
type SQLite struct {
	path   string
	logger *slog.Logger
}

// NewSQLite creates a SQLite loader for the database file at path.
// If logger is nil, slog.Default() is used.
func NewSQLite(path string, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLite{path: path, logger: logger}
}

// Loaders returns store loaders backed by s.
func (s *SQLite) Loaders() store.Loaders {
	return store.Loaders{
		Provinces: store.LoaderFunc[store.Province](s.Provinces),
		Cities:    store.LoaderFunc[store.City](s.Cities),
		Districts: store.LoaderFunc[store.District](s.Districts),
		Villages:  store.LoaderFunc[store.Village](s.Villages),
	}
}

// Provinces reads the provinces table. NULL coordinates are an error.
func (s *SQLite) Provinces(ctx context.Context) (map[string]store.Province, error) {
	out := make(map[string]store.Province)
	err := s.query(ctx, "SELECT code, name, latitude, longitude FROM provinces", func(rows *sql.Rows) error {
		var p store.Province
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&p.Code, &p.Name, &lat, &lng); err != nil {
			return fmt.Errorf("scan province: %w", err)
		}
		if !lat.Valid || !lng.Valid {
			return fmt.Errorf("province %s: missing coordinates", p.Code)
		}
		p.Latitude, p.Longitude = lat.Float64, lng.Float64
		out[p.Code] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cities reads the cities table. NULL coordinates are an error.
func (s *SQLite) Cities(ctx context.Context) (map[string]store.City, error) {
	out := make(map[string]store.City)
	err := s.query(ctx, "SELECT code, province_code, name, latitude, longitude FROM cities", func(rows *sql.Rows) error {
		var c store.City
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&c.Code, &c.ProvinceCode, &c.Name, &lat, &lng); err != nil {
			return fmt.Errorf("scan city: %w", err)
		}
		if !lat.Valid || !lng.Valid {
			return fmt.Errorf("city %s: missing coordinates", c.Code)
		}
		c.Latitude, c.Longitude = lat.Float64, lng.Float64
		out[c.Code] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Districts reads the districts table. NULL coordinates become 0.
func (s *SQLite) Districts(ctx context.Context) (map[string]store.District, error) {
	out := make(map[string]store.District)
	err := s.query(ctx, "SELECT code, city_code, name, latitude, longitude FROM districts", func(rows *sql.Rows) error {
		var d store.District
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&d.Code, &d.CityCode, &d.Name, &lat, &lng); err != nil {
			return fmt.Errorf("scan district: %w", err)
		}
		d.Latitude, d.Longitude = lat.Float64, lng.Float64
		out[d.Code] = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Villages reads the villages table. NULL coordinates become 0.
// Any failure, including a missing table, yields no villages.
func (s *SQLite) Villages(ctx context.Context) (map[string]store.Village, error) {
	out := make(map[string]store.Village)
	err := s.query(ctx, "SELECT code, district_code, name, latitude, longitude FROM villages", func(rows *sql.Rows) error {
		var v store.Village
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&v.Code, &v.DistrictCode, &v.Name, &lat, &lng); err != nil {
			return fmt.Errorf("scan village: %w", err)
		}
		v.Latitude, v.Longitude = lat.Float64, lng.Float64
		out[v.Code] = v
		return nil
	})
	if err != nil {
		s.logger.Warn("village load failed", "path", s.path, "error", err)
		return map[string]store.Village{}, nil
	}
	return out, nil
}

func (s *SQLite) query(ctx context.Context, q string, fn func(*sql.Rows) error) error {
	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", s.path, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query %s: %w", s.path, err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}
