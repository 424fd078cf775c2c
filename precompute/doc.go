// Package precompute builds the enriched catalog: every resource of the
// plain catalog with an embedding vector attached.
//
// Texts are embedded in small batches with exponential-backoff retry. A batch
// that keeps failing is retried one resource at a time, and a resource that
// still fails is written without a vector so rankings score it
// heuristically. Vectors are L2-normalized before they are stored.
//
// When a previous enriched catalog is supplied, resources whose embedded
// text has not changed reuse their old vector instead of calling the
// embedding service again.
package precompute
