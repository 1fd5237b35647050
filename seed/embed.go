// Package seed provides the embedded default store catalog.
package seed

import _ "embed"

// Catalog is the JSON catalog loaded when no catalog file is configured.
//
//go:embed catalog.json
var Catalog []byte
