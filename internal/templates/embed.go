package templates

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed all:catalog
var catalogFS embed.FS

var embedded = sync.OnceValues(func() (*Catalog, error) {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Embedded returns the catalog bundled into the binary.
// It is loaded once and shared.
func Embedded() (*Catalog, error) {
	return embedded()
}

