// Package classify assigns each file a vault category from its MIME type,
// embedded metadata, extension, or content header.
package classify
