// Package metadata defines the typed field store produced by per-format
// extractors and the dispatch table that selects extractors by MIME family.
package metadata
