package metadata

import "time"

// Kind discriminates the typed arms of a field value.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInt
	KindTime
)

// Value is a single extracted metadata value with provenance. The Unknown kind
// carries raw text that no extractor could type.
type Value struct {
	Kind       Kind
	Str        string
	Int        int64
	Time       time.Time
	Provenance string
}

// Fields is a schema'd key-value store of extracted metadata. Accessors report
// presence explicitly so consumers never confuse a zero value with a miss.
type Fields map[string]Value

// Well-known field keys. Extractors write these; the decision engine reads them.
const (
	FieldMIMEType             = "mime_type"
	FieldEXIFDateTimeOriginal = "exif_datetime_original"
	FieldEXIFOffsetOriginal   = "exif_offset_time_original"
	FieldCreationDate         = "creation_date"
	FieldCaptureDate          = "capture_date"
	FieldDevice               = "device"
	FieldResolution           = "resolution"
	FieldTitle                = "title"
	FieldArtist               = "artist"
	FieldAlbum                = "album"
	FieldYear                 = "year"
	FieldSizeBytes            = "size_bytes"
	FieldModifiedTime         = "modified_time"
	FieldOriginalName         = "original_name"
)

// ProvenanceFilesystem marks values derived from file stat rather than
// embedded metadata. The date cascade treats these differently.
const ProvenanceFilesystem = "filesystem"

func (f Fields) String(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

func (f Fields) Int(key string) (int64, bool) {
	v, ok := f[key]
	if !ok || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

func (f Fields) Time(key string) (time.Time, bool) {
	v, ok := f[key]
	if !ok || v.Kind != KindTime {
		return time.Time{}, false
	}
	return v.Time, true
}

// Provenance returns the recorded origin of a field, or "" when absent.
func (f Fields) Provenance(key string) string {
	return f[key].Provenance
}

func (f Fields) SetString(key, value, provenance string) {
	f[key] = Value{Kind: KindString, Str: value, Provenance: provenance}
}

func (f Fields) SetInt(key string, value int64, provenance string) {
	f[key] = Value{Kind: KindInt, Int: value, Provenance: provenance}
}

func (f Fields) SetTime(key string, value time.Time, provenance string) {
	f[key] = Value{Kind: KindTime, Time: value, Provenance: provenance}
}

// SetUnknown records raw text that could not be typed.
func (f Fields) SetUnknown(key, raw, provenance string) {
	f[key] = Value{Kind: KindUnknown, Str: raw, Provenance: provenance}
}

// Merge copies src entries into f without overwriting existing keys.
// Earlier extractors win.
func (f Fields) Merge(src Fields) {
	for key, value := range src {
		if _, ok := f[key]; ok {
			continue
		}
		f[key] = value
	}
}
