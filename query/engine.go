// Package query lists reference records by parent scope and keyword.
package query

import (
	"github.com/jacentio/wilayah/store"
)

var (
	provinceFields = Accessors[store.Province]{
		Code: func(p store.Province) string { return p.Code },
		Name: func(p store.Province) string { return p.Name },
	}
	cityFields = Accessors[store.City]{
		Code:   func(c store.City) string { return c.Code },
		Name:   func(c store.City) string { return c.Name },
		Parent: func(c store.City) string { return c.ProvinceCode },
	}
	districtFields = Accessors[store.District]{
		Code:   func(d store.District) string { return d.Code },
		Name:   func(d store.District) string { return d.Name },
		Parent: func(d store.District) string { return d.CityCode },
	}
	villageFields = Accessors[store.Village]{
		Code:   func(v store.Village) string { return v.Code },
		Name:   func(v store.Village) string { return v.Name },
		Parent: func(v store.Village) string { return v.DistrictCode },
	}
)

// Engine answers list queries against a Store.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	store *store.Store
}

// New creates an Engine over s.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Provinces lists provinces matching keyword, sorted by code.
func (e *Engine) Provinces(keyword string) []store.Province {
	return Filter(e.store.Provinces().Values(), provinceFields, "", keyword)
}

// Cities lists cities of provinceCode matching keyword, sorted by code.
// A blank provinceCode lists cities of every province.
func (e *Engine) Cities(provinceCode, keyword string) []store.City {
	return Filter(e.store.Cities().Values(), cityFields, provinceCode, keyword)
}

// Districts lists districts of cityCode matching keyword, sorted by code.
func (e *Engine) Districts(cityCode, keyword string) []store.District {
	return Filter(e.store.Districts().Values(), districtFields, cityCode, keyword)
}

// Villages lists villages of districtCode matching keyword, sorted by code.
func (e *Engine) Villages(districtCode, keyword string) []store.Village {
	return Filter(e.store.Villages().Values(), villageFields, districtCode, keyword)
}
