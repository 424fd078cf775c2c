package catalog

import "errors"

var (
	// ErrSourceRequired is returned when a store is created without any source.
	ErrSourceRequired = errors.New("at least one catalog source required")

	// ErrDuplicateID indicates two catalog items share an id.
	ErrDuplicateID = errors.New("duplicate catalog item id")

	// ErrInvalidItem indicates a catalog item without a positive id.
	ErrInvalidItem = errors.New("invalid catalog item")
)
