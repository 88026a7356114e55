package catalog

import "embed"

//go:embed data/*.yaml
var bundledFS embed.FS

// Bundled loads the catalog compiled into the binary.
func Bundled() (*StaticCatalog, error) {
	return LoadStatic(bundledFS, "data/*.yaml")
}
