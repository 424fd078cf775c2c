package search

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrCatalogUnavailable is returned when the catalog loaded empty.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
