// Package dataset embeds a sample of the Indonesian administrative
// hierarchy in the CSV layout read by loader.CSV.
package dataset

import (
	"embed"
	"io/fs"
)

//go:embed data
var data embed.FS

// FS returns the embedded dataset rooted at its data directory.
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		// data is always present in the embedded file system
		panic(err)
	}
	return sub
}
