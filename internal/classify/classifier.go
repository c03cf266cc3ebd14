package classify

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"curator/internal/logging"
	"curator/internal/metadata"
)

// Category names a top-level vault folder.
type Category string

const (
	CategoryPhotos    Category = "photos"
	CategoryDocuments Category = "documents"
	CategoryVideos    Category = "videos"
	CategoryAudio     Category = "audio"
	CategoryArchives  Category = "archives"
	CategoryOther     Category = "other"
)

// Detection methods, ordered from most to least trustworthy.
const (
	MethodMIMEKnown        = "mime-known"
	MethodEmbeddedMetadata = "embedded-metadata"
	MethodExtension        = "extension"
	MethodHeaderInspection = "header-inspection"
	MethodFallback         = "fallback"
)

// Result describes where a file belongs and how sure the engine is.
type Result struct {
	Category    Category
	Subcategory string
	MIMEType    string
	Method      string
	Confidence  float64
}

// Engine classifies files into vault categories. It records files whose
// classification confidence falls below the configured threshold so a run
// summary can surface them for manual review.
type Engine struct {
	logger    *slog.Logger
	threshold float64

	mu        sync.Mutex
	ambiguous []string
}

func NewEngine(logger *slog.Logger, threshold float64) *Engine {
	return &Engine{
		logger:    logging.WithComponent(logger, "classify"),
		threshold: threshold,
	}
}

// Classify resolves the category for path. Detection runs as a cascade: a
// MIME type already established by metadata extraction, then embedded tag
// hints, then the filename extension, then content sniffing, and finally the
// octet-stream fallback which always lands in other.
func (e *Engine) Classify(path string, fields metadata.Fields) Result {
	result := e.resolve(path, fields)
	if result.Confidence < e.threshold {
		e.mu.Lock()
		e.ambiguous = append(e.ambiguous, path)
		e.mu.Unlock()
		e.logger.Debug("ambiguous classification",
			logging.String(logging.FieldFile, path),
			logging.String("mime_type", result.MIMEType),
			logging.Float64("confidence", result.Confidence))
	}
	return result
}

// Probe classifies without recording ambiguity. Used to route metadata
// extraction before the real classification happens on enriched fields.
func (e *Engine) Probe(path string, fields metadata.Fields) Result {
	return e.resolve(path, fields)
}

func (e *Engine) resolve(path string, fields metadata.Fields) Result {
	if mimeType, ok := fields.String(metadata.FieldMIMEType); ok {
		if m, known := lookupMIME(mimeType); known {
			return Result{
				Category:    m.category,
				Subcategory: m.subcategory,
				MIMEType:    mimeType,
				Method:      MethodMIMEKnown,
				Confidence:  0.95,
			}
		}
	}

	if result, ok := e.fromEmbedded(fields); ok {
		return result
	}

	if mimeType, ok := typeForExtension(path); ok {
		if m, known := lookupMIME(mimeType); known {
			return Result{
				Category:    m.category,
				Subcategory: m.subcategory,
				MIMEType:    mimeType,
				Method:      MethodExtension,
				Confidence:  0.7,
			}
		}
	}

	if mimeType, ok := sniffContent(path); ok {
		if m, known := lookupMIME(mimeType); known {
			return Result{
				Category:    m.category,
				Subcategory: m.subcategory,
				MIMEType:    mimeType,
				Method:      MethodHeaderInspection,
				Confidence:  0.6,
			}
		}
	}

	return Result{
		Category:   CategoryOther,
		MIMEType:   "application/octet-stream",
		Method:     MethodFallback,
		Confidence: 0.0,
	}
}

// fromEmbedded classifies on tag metadata alone. Audio tags imply an audio
// container even when the MIME type and extension gave nothing usable.
func (e *Engine) fromEmbedded(fields metadata.Fields) (Result, bool) {
	for _, key := range []string{metadata.FieldTitle, metadata.FieldArtist, metadata.FieldAlbum} {
		value, ok := fields.String(key)
		if !ok || value == "" {
			continue
		}
		if strings.HasPrefix(fields.Provenance(key), "tag:") {
			return Result{
				Category:   CategoryAudio,
				MIMEType:   "audio/mpeg",
				Method:     MethodEmbeddedMetadata,
				Confidence: 0.9,
			}, true
		}
	}
	return Result{}, false
}

// Batch classifies a set of files, keyed by path.
func (e *Engine) Batch(entries map[string]metadata.Fields) map[string]Result {
	results := make(map[string]Result, len(entries))
	for path, fields := range entries {
		results[path] = e.Classify(path, fields)
	}
	return results
}

// Ambiguous returns the paths whose confidence fell below the threshold, in
// the order they were classified.
func (e *Engine) Ambiguous() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.ambiguous))
	copy(out, e.ambiguous)
	return out
}

// lookupMIME strips any parameters before consulting the category table.
func lookupMIME(mimeType string) (mapping, bool) {
	base := mimeType
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		base = parsed
	}
	m, ok := mimeCategories[strings.ToLower(base)]
	return m, ok
}

func typeForExtension(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	if mimeType, ok := extensionTypes[ext]; ok {
		return mimeType, true
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType, true
	}
	return "", false
}

// sniffContent reads the leading bytes and asks the HTTP content sniffer.
// The generic octet-stream answer is treated as no answer so the fallback
// level stays the only source of that type.
func sniffContent(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return "", false
	}
	detected := http.DetectContentType(buf[:n])
	if detected == "application/octet-stream" {
		return "", false
	}
	return detected, true
}
