// Package hydrate fetches a single record with requested descendant levels
// attached.
//
// Levels attach strictly top-down: villages are attached only when cities
// and districts are attached too. Sibling subtrees are computed concurrently
// and attached after every sibling finishes.
package hydrate

import (
	"golang.org/x/sync/errgroup"

	"github.com/jacentio/wilayah/query"
	"github.com/jacentio/wilayah/store"
)

// Engine hydrates records from a Store.
type Engine struct {
	store    *store.Store
	query    *query.Engine
	registry *store.Registry
	config   Config
}

// New creates a new Engine using the default level registry.
func New(s *store.Store, config Config) *Engine {
	return NewWithRegistry(s, config, store.DefaultRegistry())
}

// NewWithRegistry creates a new Engine whose include tokens come from registry.
func NewWithRegistry(s *store.Store, config Config, registry *store.Registry) *Engine {
	config.validate()
	return &Engine{
		store:    s,
		query:    query.New(s),
		registry: registry,
		config:   config,
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Province returns a copy of the province with the given code, hydrated
// with the levels enabled by includes, or nil if no province has that code.
func (e *Engine) Province(code string, includes Includes) *store.Province {
	p, ok := e.store.Provinces().Get(code)
	if !ok {
		return nil
	}

	result := p.Flat()
	if depth := e.depth(store.KindProvince, includes); depth > 0 {
		result.Cities = e.cities(result.Code, depth-1)
	}
	return &result
}

// City returns a copy of the city with the given code, hydrated with the
// levels enabled by includes, or nil if no city has that code.
func (e *Engine) City(code string, includes Includes) *store.City {
	c, ok := e.store.Cities().Get(code)
	if !ok {
		return nil
	}

	result := c.Flat()
	if depth := e.depth(store.KindCity, includes); depth > 0 {
		result.Districts = e.districts(result.Code, depth-1)
	}
	return &result
}

// District returns a copy of the district with the given code, hydrated
// with the levels enabled by includes, or nil if no district has that code.
func (e *Engine) District(code string, includes Includes) *store.District {
	d, ok := e.store.Districts().Get(code)
	if !ok {
		return nil
	}

	result := d.Flat()
	if depth := e.depth(store.KindDistrict, includes); depth > 0 {
		result.Villages = e.query.Villages(result.Code, "")
	}
	return &result
}

// depth returns how many levels below kind includes enables.
func (e *Engine) depth(kind store.Kind, includes Includes) int {
	if len(includes) == 0 || !e.registry.HasChildren(kind) {
		return 0
	}
	return includes.Depth(e.registry.Chain(kind))
}

// cities lists the cities of a province with depth further levels attached.
func (e *Engine) cities(provinceCode string, depth int) []store.City {
	cities := e.query.Cities(provinceCode, "")
	if depth < 1 {
		return cities
	}

	subtrees := make([][]store.District, len(cities))
	e.fanOut(len(cities), func(i int) {
		subtrees[i] = e.districts(cities[i].Code, depth-1)
	})
	for i := range cities {
		cities[i].Districts = subtrees[i]
	}
	return cities
}

// districts lists the districts of a city with depth further levels attached.
func (e *Engine) districts(cityCode string, depth int) []store.District {
	districts := e.query.Districts(cityCode, "")
	if depth < 1 {
		return districts
	}

	subtrees := make([][]store.Village, len(districts))
	e.fanOut(len(districts), func(i int) {
		subtrees[i] = e.query.Villages(districts[i].Code, "")
	})
	for i := range districts {
		districts[i].Villages = subtrees[i]
	}
	return districts
}

// fanOut runs fn for every index in [0, n) and returns once all calls finish.
// Each call must write only to its own index.
func (e *Engine) fanOut(n int, fn func(i int)) {
	if n < e.config.MinFanOut || e.config.Workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.config.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait() // units never fail
}
