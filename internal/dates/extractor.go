package dates

import (
	"log/slog"
	"path/filepath"
	"time"

	"curator/internal/logging"
	"curator/internal/metadata"
)

// Source identifies which cascade level produced a date.
type Source string

const (
	SourceEXIFOriginal     Source = "exif_datetime_original"
	SourceEmbeddedCreation Source = "embedded_creation_date"
	SourceEmbeddedCapture  Source = "embedded_capture_date"
	SourceFileBirth        Source = "filesystem_birth_time"
	SourceFileModified     Source = "filesystem_modified_time"
	SourceFilename         Source = "filename_pattern"
	SourceCurrentTime      Source = "current_time"
)

// Info is the authoritative timestamp resolved for one file. UTC always
// carries the UTC location; Local and LocalDate keep the wall clock and
// calendar date of the source's original zone, used for human-facing folder
// and file naming.
type Info struct {
	UTC          time.Time
	Source       Source
	TimezoneInfo string
	Local        time.Time
	LocalDate    time.Time
	Confidence   float64
}

// Extractor resolves dates through a prioritized cascade of sources.
type Extractor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewExtractor constructs a date extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logging.WithComponent(logger, "dates"),
		now:    time.Now,
	}
}

// exifLayout is the EXIF ASCII date format.
const exifLayout = "2006:01:02 15:04:05"

// embeddedLayouts are tried in order for embedded creation/capture strings.
var embeddedLayouts = []string{
	time.RFC3339,
	exifLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Extract resolves a single date for the file. It never fails and never
// returns a naive instant: the last cascade level is the current time at
// confidence zero.
func (e *Extractor) Extract(path string, fields metadata.Fields) Info {
	if info, ok := e.fromEXIFOriginal(fields); ok {
		return info
	}
	if info, ok := e.fromEmbedded(fields, metadata.FieldCreationDate, SourceEmbeddedCreation); ok {
		return info
	}
	if info, ok := e.fromEmbedded(fields, metadata.FieldCaptureDate, SourceEmbeddedCapture); ok {
		return info
	}
	if birth, ok := birthTime(path); ok {
		return infoFromInstant(birth, SourceFileBirth, "filesystem birth time", 0.8)
	}
	if modified, ok := fields.Time(metadata.FieldModifiedTime); ok && !modified.IsZero() {
		return infoFromInstant(modified, SourceFileModified, "filesystem modification time", 0.6)
	}
	if date, pattern, ok := dateFromFilename(filepath.Base(path)); ok {
		return Info{
			UTC:          date,
			Source:       SourceFilename,
			TimezoneInfo: "assumed UTC (" + pattern + ")",
			Local:        wallClock(date),
			LocalDate:    midnight(date),
			Confidence:   0.7,
		}
	}
	now := e.now().UTC()
	return Info{
		UTC:          now,
		Source:       SourceCurrentTime,
		TimezoneInfo: "extraction time",
		Local:        wallClock(now),
		LocalDate:    midnight(now),
		Confidence:   0.0,
	}
}

// Batch resolves dates for many files, isolating per-file failures: a file
// whose extraction panics degrades to the current-time level instead of
// aborting the batch.
func (e *Extractor) Batch(entries map[string]metadata.Fields) map[string]Info {
	results := make(map[string]Info, len(entries))
	for path, fields := range entries {
		results[path] = e.extractIsolated(path, fields)
	}
	return results
}

func (e *Extractor) extractIsolated(path string, fields metadata.Fields) (info Info) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("date extraction failed; using current time",
				logging.String("file", path),
				logging.Any("panic", r),
			)
			now := e.now().UTC()
			info = Info{
				UTC:          now,
				Source:       SourceCurrentTime,
				TimezoneInfo: "extraction time",
				Local:        wallClock(now),
				LocalDate:    midnight(now),
				Confidence:   0.0,
			}
		}
	}()
	return e.Extract(path, fields)
}

func (e *Extractor) fromEXIFOriginal(fields metadata.Fields) (Info, bool) {
	raw, ok := fields.String(metadata.FieldEXIFDateTimeOriginal)
	if !ok {
		return Info{}, false
	}

	location := time.UTC
	tzInfo := "assumed UTC"
	if offset, ok := fields.String(metadata.FieldEXIFOffsetOriginal); ok {
		if loc, ok := parseUTCOffset(offset); ok {
			location = loc
			tzInfo = "exif offset " + offset
		}
	}

	local, err := time.ParseInLocation(exifLayout, raw, location)
	if err != nil {
		return Info{}, false
	}
	return Info{
		UTC:          local.UTC(),
		Source:       SourceEXIFOriginal,
		TimezoneInfo: tzInfo,
		Local:        wallClock(local),
		LocalDate:    midnight(local),
		Confidence:   0.95,
	}, true
}

// fromEmbedded handles the two embedded fallback levels. Values whose
// provenance is the filesystem are rejected: these levels must originate
// from metadata.
func (e *Extractor) fromEmbedded(fields metadata.Fields, key string, source Source) (Info, bool) {
	if fields.Provenance(key) == metadata.ProvenanceFilesystem {
		return Info{}, false
	}
	if value, ok := fields.Time(key); ok && !value.IsZero() {
		info := infoFromInstant(value, source, "embedded metadata", 0.9)
		return info, true
	}
	raw, ok := fields.String(key)
	if !ok {
		return Info{}, false
	}
	for _, layout := range embeddedLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		tzInfo := "embedded metadata"
		if parsed.Location() == time.UTC && layout != time.RFC3339 {
			tzInfo = "embedded metadata, assumed UTC"
		}
		return Info{
			UTC:          parsed.UTC(),
			Source:       source,
			TimezoneInfo: tzInfo,
			Local:        wallClock(parsed),
			LocalDate:    midnight(parsed),
			Confidence:   0.9,
		}, true
	}
	return Info{}, false
}

func infoFromInstant(t time.Time, source Source, tzInfo string, confidence float64) Info {
	return Info{
		UTC:          t.UTC(),
		Source:       source,
		TimezoneInfo: tzInfo,
		Local:        wallClock(t),
		LocalDate:    midnight(t),
		Confidence:   confidence,
	}
}

// parseUTCOffset parses "+05:30" style EXIF offsets into a fixed zone.
func parseUTCOffset(offset string) (*time.Location, bool) {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil, false
	}
	for _, i := range []int{1, 2, 4, 5} {
		if offset[i] < '0' || offset[i] > '9' {
			return nil, false
		}
	}
	hours := int(offset[1]-'0')*10 + int(offset[2]-'0')
	minutes := int(offset[4]-'0')*10 + int(offset[5]-'0')
	if hours > 14 || minutes > 59 {
		return nil, false
	}
	seconds := (hours*60 + minutes) * 60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+offset, seconds), true
}

// midnight truncates a timestamp to its calendar date in its own location,
// re-anchored at UTC midnight for stable comparison and formatting.
func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// wallClock keeps the local date and clock of a timestamp but re-anchors it
// at UTC, so formatting it never reapplies an offset.
func wallClock(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
