// Package store holds the immutable, in-memory reference data for the
// Indonesian administrative hierarchy.
//
// Wilayah models four levels, each identified by a canonical code:
//
//	province (provinsi) → city (kabupaten/kota) → district (kecamatan) → village (desa/kelurahan)
//
// # Entities
//
// [Province], [City], [District] and [Village] carry a code, a name,
// coordinates and, except for provinces, the code of their parent.
// Descendant lists ([Province.Cities], [City.Districts], [District.Villages])
// are nil unless a caller hydrated them; an empty, non-nil list means the
// level was requested and has no members.
//
// # Building a Store
//
// A [Store] is built once from four [Loader] values and never changes:
//
//	s, err := store.New(ctx, store.Loaders{
//	    Provinces: provincesLoader,
//	    Cities:    citiesLoader,
//	    Districts: districtsLoader,
//	    Villages:  villagesLoader,
//	}, store.WithLogger(logger))
//
// Lookups on a [Table] are exact and case-sensitive. Filtering, ordering and
// hydration live in the query and hydrate packages.
//
// # Levels
//
// The [Registry] records which level lies below which, and the include token
// callers use to request it. [DefaultRegistry] registers
// cities, districts and villages.
//
// # Errors
//
//   - [ErrLoad] - a loader failed; no store is returned
//   - [ErrUnknownKind] - a [Kind] outside [Kinds] was used
package store
