// Package catalog loads the resource catalog that rankings draw from.
//
// A Store owns the one-time load: it tries the embedding-enriched source
// first, falls back to the plain source, and caches the first non-empty
// result for the rest of its lifetime. Concurrent first loads share a single
// read. An empty result is never cached so a later call can retry once the
// sources recover; callers treat empty as "catalog unavailable".
//
// Sources are plain JSON arrays of core.CatalogItem. WriteFile produces the
// enriched file consumed by a FileSource.
package catalog
