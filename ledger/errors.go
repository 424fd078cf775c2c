package ledger

import "errors"

var (
	// ErrInteractionRepositoryRequired is returned when an interaction repository is not provided.
	ErrInteractionRepositoryRequired = errors.New("interaction repository required")

	// ErrTagCacheRequired is returned when a tag cache is not provided.
	ErrTagCacheRequired = errors.New("tag cache required")
)
