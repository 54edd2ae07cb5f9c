package store

import "errors"

var (
	// ErrLoad is returned by New when a required reference-data source
	// cannot be loaded. The wrapping error names the kind and the cause.
	ErrLoad = errors.New("wilayah: reference data load failed")

	// ErrUnknownKind is returned when a Kind outside Kinds is used.
	ErrUnknownKind = errors.New("wilayah: unknown kind")
)
