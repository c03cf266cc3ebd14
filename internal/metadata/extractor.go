package metadata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"curator/internal/logging"
)

// Extractor produces a flat field mapping for one file family. Extractors
// never mutate the source file and fail with a descriptive error on
// unreadable or corrupt input.
type Extractor interface {
	Name() string
	Extract(path string) (Fields, error)
}

// Dispatcher selects extractors through a closed table keyed by MIME family
// and consolidates their output. Per-extractor failures degrade to the
// filesystem baseline instead of failing the file.
type Dispatcher struct {
	byFamily map[string][]Extractor
	logger   *slog.Logger
}

// NewDispatcher wires the built-in extractor set.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		byFamily: map[string][]Extractor{
			"image": {&EXIFExtractor{}},
			"audio": {&AudioTagExtractor{}},
		},
		logger: logging.WithComponent(logger, "metadata"),
	}
}

// Extract consolidates filesystem fields with family-specific embedded
// metadata for the given detected MIME type.
func (d *Dispatcher) Extract(path, mimeType string) (Fields, error) {
	fields, err := statFields(path)
	if err != nil {
		return nil, err
	}

	family := mimeFamily(mimeType)
	for _, extractor := range d.byFamily[family] {
		extracted, err := extractor.Extract(path)
		if err != nil {
			d.logger.Debug("extractor skipped",
				logging.String("extractor", extractor.Name()),
				logging.String("file", path),
				logging.Error(err),
			)
			continue
		}
		fields.Merge(extracted)
	}
	return fields, nil
}

func mimeFamily(mimeType string) string {
	if idx := strings.IndexByte(mimeType, '/'); idx > 0 {
		return mimeType[:idx]
	}
	return mimeType
}

// statFields is the always-available baseline: size, modification time, and
// the original name, all with filesystem provenance.
func statFields(path string) (Fields, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stat %s: is a directory", path)
	}
	fields := Fields{}
	fields.SetInt(FieldSizeBytes, info.Size(), ProvenanceFilesystem)
	fields.SetTime(FieldModifiedTime, info.ModTime(), ProvenanceFilesystem)
	fields.SetString(FieldOriginalName, filepath.Base(path), ProvenanceFilesystem)
	return fields, nil
}
