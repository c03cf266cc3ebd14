// Package dates resolves one authoritative timestamp per file from a
// prioritized cascade of metadata, filesystem, and filename sources.
package dates
