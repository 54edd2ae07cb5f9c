package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jacentio/wilayah/internal/fingerprint"
)

// Loader loads every record of one kind, keyed by canonical code.
// Records must not carry descendant levels; the store clears them regardless.
type Loader[T any] interface {
	Load(ctx context.Context) (map[string]T, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc[T any] func(ctx context.Context) (map[string]T, error)

// Load implements Loader.
func (f LoaderFunc[T]) Load(ctx context.Context) (map[string]T, error) {
	return f(ctx)
}

// Loaders groups the loaders for the four levels.
// A nil loader yields an empty table.
type Loaders struct {
	Provinces Loader[Province]
	Cities    Loader[City]
	Districts Loader[District]
	Villages  Loader[Village]
}

// Table is a read-only code → record index for one kind.
type Table[T any] struct {
	rows map[string]T
}

// Get returns the record with exactly the given code.
func (t Table[T]) Get(code string) (T, bool) {
	v, ok := t.rows[code]
	return v, ok
}

// Values returns every record in unspecified order.
// The slice is freshly allocated on each call.
func (t Table[T]) Values() []T {
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		out = append(out, v)
	}
	return out
}

// Len returns the number of records.
func (t Table[T]) Len() int {
	return len(t.rows)
}

// Store holds the reference data for all four levels.
// It is immutable after New returns and safe for concurrent reads.
type Store struct {
	id          uuid.UUID
	builtAt     time.Time
	fingerprint string

	provinces Table[Province]
	cities    Table[City]
	districts Table[District]
	villages  Table[Village]
}

// Snapshot describes a built store.
type Snapshot struct {
	// ID identifies this store instance.
	ID string `json:"id"`

	// Fingerprint is a digest of the loaded content; equal content yields
	// an equal fingerprint across instances.
	Fingerprint string `json:"fingerprint"`

	BuiltAt time.Time    `json:"builtAt"`
	Counts  map[Kind]int `json:"counts"`
}

type options struct {
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used while building the store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds a Store by invoking each loader exactly once.
// Any loader error aborts construction and is returned wrapped in ErrLoad.
func New(ctx context.Context, loaders Loaders, opts ...Option) (*Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	start := time.Now()
	s := &Store{id: uuid.New()}

	var err error
	if s.provinces, err = load(ctx, KindProvince, loaders.Provinces); err != nil {
		return nil, err
	}
	if s.cities, err = load(ctx, KindCity, loaders.Cities); err != nil {
		return nil, err
	}
	if s.districts, err = load(ctx, KindDistrict, loaders.Districts); err != nil {
		return nil, err
	}
	if s.villages, err = load(ctx, KindVillage, loaders.Villages); err != nil {
		return nil, err
	}

	s.fingerprint = s.computeFingerprint()
	s.builtAt = time.Now()

	o.logger.Info("reference store built",
		"snapshot", s.id.String(),
		"provinces", s.provinces.Len(),
		"cities", s.cities.Len(),
		"districts", s.districts.Len(),
		"villages", s.villages.Len(),
		"fingerprint", s.fingerprint,
		"duration", time.Since(start),
	)

	return s, nil
}

// load invokes one loader and copies its records into a fresh table with
// descendant levels cleared.
func load[T interface{ Flat() T }](ctx context.Context, kind Kind, l Loader[T]) (Table[T], error) {
	rows := make(map[string]T)
	if l == nil {
		return Table[T]{rows: rows}, nil
	}

	loaded, err := l.Load(ctx)
	if err != nil {
		return Table[T]{}, fmt.Errorf("%w: %s: %w", ErrLoad, kind, err)
	}
	for code, v := range loaded {
		rows[code] = v.Flat()
	}
	return Table[T]{rows: rows}, nil
}

// Provinces returns the province table.
func (s *Store) Provinces() Table[Province] { return s.provinces }

// Cities returns the city table.
func (s *Store) Cities() Table[City] { return s.cities }

// Districts returns the district table.
func (s *Store) Districts() Table[District] { return s.districts }

// Villages returns the village table.
func (s *Store) Villages() Table[Village] { return s.villages }

// ID returns the unique identifier of this store instance.
func (s *Store) ID() string { return s.id.String() }

// Fingerprint returns the content digest of the loaded data.
func (s *Store) Fingerprint() string { return s.fingerprint }

// Count returns the number of records of the given kind.
func (s *Store) Count(kind Kind) (int, error) {
	switch kind {
	case KindProvince:
		return s.provinces.Len(), nil
	case KindCity:
		return s.cities.Len(), nil
	case KindDistrict:
		return s.districts.Len(), nil
	case KindVillage:
		return s.villages.Len(), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Snapshot returns a description of this store.
func (s *Store) Snapshot() Snapshot {
	counts := make(map[Kind]int, len(Kinds))
	for _, kind := range Kinds {
		counts[kind], _ = s.Count(kind)
	}
	return Snapshot{
		ID:          s.id.String(),
		Fingerprint: s.fingerprint,
		BuiltAt:     s.builtAt,
		Counts:      counts,
	}
}

func (s *Store) computeFingerprint() string {
	total := s.provinces.Len() + s.cities.Len() + s.districts.Len() + s.villages.Len()
	records := make([]string, 0, total)

	for code, p := range s.provinces.rows {
		records = append(records, fingerprint.Record(string(KindProvince), code, "", p.Name, coord(p.Latitude), coord(p.Longitude)))
	}
	for code, c := range s.cities.rows {
		records = append(records, fingerprint.Record(string(KindCity), code, c.ProvinceCode, c.Name, coord(c.Latitude), coord(c.Longitude)))
	}
	for code, d := range s.districts.rows {
		records = append(records, fingerprint.Record(string(KindDistrict), code, d.CityCode, d.Name, coord(d.Latitude), coord(d.Longitude)))
	}
	for code, v := range s.villages.rows {
		records = append(records, fingerprint.Record(string(KindVillage), code, v.DistrictCode, v.Name, coord(v.Latitude), coord(v.Longitude)))
	}

	return fingerprint.Combine(records)
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
