package catalog

import "errors"

// Sentinel kinds for catalog build errors.
var (
	ErrEmptyCatalog = errors.New("no movies survived preprocessing")
	ErrBadHeader    = errors.New("missing required column")
)
