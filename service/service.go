// Package service is the query surface over a reference store.
//
// It combines list queries and hydrated fetches, and records every call in
// Prometheus and the debug log. A Service is safe for concurrent use.
package service

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/wilayah/hydrate"
	"github.com/jacentio/wilayah/internal/metrics"
	"github.com/jacentio/wilayah/query"
	"github.com/jacentio/wilayah/store"
)

// Service answers list and fetch calls.
type Service struct {
	store   *store.Store
	query   *query.Engine
	hydrate *hydrate.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type options struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	hydrate    hydrate.Config
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers the service collectors on reg.
// Without it the collectors are kept but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithHydrateConfig sets the fan-out configuration for fetches.
func WithHydrateConfig(config hydrate.Config) Option {
	return func(o *options) {
		o.hydrate = config
	}
}

// New creates a Service over s.
func New(s *store.Store, opts ...Option) *Service {
	o := options{hydrate: hydrate.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	svc := &Service{
		store:   s,
		query:   query.New(s),
		hydrate: hydrate.New(s, o.hydrate),
		metrics: metrics.New(o.registerer),
		logger:  o.logger,
	}

	for _, kind := range store.Kinds {
		n, _ := s.Count(kind)
		svc.metrics.StoreEntities.WithLabelValues(string(kind)).Set(float64(n))
	}
	return svc
}

// Provinces lists provinces matching keyword, sorted by code.
func (s *Service) Provinces(keyword string) []store.Province {
	start := time.Now()
	out := s.query.Provinces(keyword)
	s.observe("provinces", start, len(out), "keyword", keyword)
	return out
}

// Cities lists cities of provinceCode matching keyword, sorted by code.
func (s *Service) Cities(provinceCode, keyword string) []store.City {
	start := time.Now()
	out := s.query.Cities(provinceCode, keyword)
	s.observe("cities", start, len(out), "province_code", provinceCode, "keyword", keyword)
	return out
}

// Districts lists districts of cityCode matching keyword, sorted by code.
func (s *Service) Districts(cityCode, keyword string) []store.District {
	start := time.Now()
	out := s.query.Districts(cityCode, keyword)
	s.observe("districts", start, len(out), "city_code", cityCode, "keyword", keyword)
	return out
}

// Villages lists villages of districtCode matching keyword, sorted by code.
func (s *Service) Villages(districtCode, keyword string) []store.Village {
	start := time.Now()
	out := s.query.Villages(districtCode, keyword)
	s.observe("villages", start, len(out), "district_code", districtCode, "keyword", keyword)
	return out
}

// Province fetches one province with the levels named by includes attached.
// Each include may hold a comma-separated list of levels.
// It returns nil if no province has that code.
func (s *Service) Province(code string, includes []string) *store.Province {
	start := time.Now()
	p := s.hydrate.Province(code, hydrate.SplitIncludes(includes...))
	s.observeFetch(store.KindProvince, start, p != nil, code, includes)
	return p
}

// City fetches one city with the levels named by includes attached.
// Each include may hold a comma-separated list of levels.
// It returns nil if no city has that code.
func (s *Service) City(code string, includes []string) *store.City {
	start := time.Now()
	c := s.hydrate.City(code, hydrate.SplitIncludes(includes...))
	s.observeFetch(store.KindCity, start, c != nil, code, includes)
	return c
}

// District fetches one district with the levels named by includes attached.
// Each include may hold a comma-separated list of levels.
// It returns nil if no district has that code.
func (s *Service) District(code string, includes []string) *store.District {
	start := time.Now()
	d := s.hydrate.District(code, hydrate.SplitIncludes(includes...))
	s.observeFetch(store.KindDistrict, start, d != nil, code, includes)
	return d
}

// Snapshot describes the underlying store.
func (s *Service) Snapshot() store.Snapshot {
	return s.store.Snapshot()
}

func (s *Service) observe(op string, start time.Time, results int, attrs ...any) {
	elapsed := time.Since(start)
	s.metrics.QueriesTotal.WithLabelValues(op).Inc()
	s.metrics.QueryDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	s.metrics.ResultsTotal.WithLabelValues(op).Add(float64(results))

	s.logger.Debug("query",
		append([]any{"op", op, "results", results, "duration", elapsed}, attrs...)...,
	)
}

func (s *Service) observeFetch(kind store.Kind, start time.Time, found bool, code string, includes []string) {
	results := 0
	if found {
		results = 1
	} else {
		s.metrics.FetchMisses.WithLabelValues(string(kind)).Inc()
	}
	s.observe(string(kind), start, results, "code", code, "includes", includes)
}
