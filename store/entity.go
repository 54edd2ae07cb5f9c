package store

// Kind names one level of the administrative hierarchy.
type Kind string

const (
	KindProvince Kind = "province"
	KindCity     Kind = "city"
	KindDistrict Kind = "district"
	KindVillage  Kind = "village"
)

// Kinds lists every level from the root down.
var Kinds = []Kind{KindProvince, KindCity, KindDistrict, KindVillage}

// Province is a first-level administrative region.
type Province struct {
	// Code is the canonical identifier (e.g., "32").
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Cities is nil unless the province was hydrated with cities.
	// A hydrated province without cities has an empty, non-nil slice.
	Cities []City `json:"cities,omitzero"`
}

// City is a regency (kabupaten) or municipality (kota) within a province.
type City struct {
	Code         string  `json:"code"`
	ProvinceCode string  `json:"provinceCode"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// Districts is nil unless the city was hydrated with districts.
	Districts []District `json:"districts,omitzero"`
}

// District is a subdistrict (kecamatan) within a city.
type District struct {
	Code      string  `json:"code"`
	CityCode  string  `json:"cityCode"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Villages is nil unless the district was hydrated with villages.
	Villages []Village `json:"villages,omitzero"`
}

// Village is the leaf level (desa / kelurahan).
type Village struct {
	Code         string  `json:"code"`
	DistrictCode string  `json:"districtCode"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Flat returns a copy of p with no descendant levels attached.
func (p Province) Flat() Province {
	p.Cities = nil
	return p
}

// Flat returns a copy of c with no descendant levels attached.
func (c City) Flat() City {
	c.Districts = nil
	return c
}

// Flat returns a copy of d with no descendant levels attached.
func (d District) Flat() District {
	d.Villages = nil
	return d
}

// Flat returns a copy of v. Villages have no descendants.
func (v Village) Flat() Village {
	return v
}
