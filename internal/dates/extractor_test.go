package dates_test

import (
	"path/filepath"
	"testing"
	"time"

	"curator/internal/dates"
	"curator/internal/logging"
	"curator/internal/metadata"
)

func newExtractor(t *testing.T) *dates.Extractor {
	t.Helper()
	return dates.NewExtractor(logging.NewNop())
}

// missingPath returns a path that does not exist, so filesystem cascade
// levels are skipped and only the supplied fields drive extraction.
func missingPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestEXIFOriginalWithOffset(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldEXIFDateTimeOriginal, "2024:01:15 14:30:22", "exif:DateTimeOriginal")
	fields.SetString(metadata.FieldEXIFOffsetOriginal, "+05:30", "exif:OffsetTimeOriginal")

	info := newExtractor(t).Extract(missingPath(t, "IMG_0001.jpg"), fields)
	want := time.Date(2024, 1, 15, 9, 0, 22, 0, time.UTC)
	if !info.UTC.Equal(want) {
		t.Fatalf("UTC = %v, want %v", info.UTC, want)
	}
	if info.Source != dates.SourceEXIFOriginal {
		t.Fatalf("Source = %s", info.Source)
	}
	if info.Confidence != 0.95 {
		t.Fatalf("Confidence = %v", info.Confidence)
	}
	wantLocal := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !info.LocalDate.Equal(wantLocal) {
		t.Fatalf("LocalDate = %v, want %v", info.LocalDate, wantLocal)
	}
}

func TestEXIFOriginalWithoutOffsetAssumesUTC(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldEXIFDateTimeOriginal, "2023:06:30 23:59:59", "exif:DateTimeOriginal")

	info := newExtractor(t).Extract(missingPath(t, "IMG_0002.jpg"), fields)
	want := time.Date(2023, 6, 30, 23, 59, 59, 0, time.UTC)
	if !info.UTC.Equal(want) {
		t.Fatalf("UTC = %v, want %v", info.UTC, want)
	}
}

func TestOffsetCrossesLocalDateBoundary(t *testing.T) {
	// 01:00 at +05:30 is the previous day in UTC; the folder date must stay
	// on the locally-meaningful calendar day.
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldEXIFDateTimeOriginal, "2024:01:15 01:00:00", "exif:DateTimeOriginal")
	fields.SetString(metadata.FieldEXIFOffsetOriginal, "+05:30", "exif:OffsetTimeOriginal")

	info := newExtractor(t).Extract(missingPath(t, "IMG_0003.jpg"), fields)
	if got := info.UTC.Format("2006-01-02"); got != "2024-01-14" {
		t.Fatalf("UTC date = %s, want 2024-01-14", got)
	}
	if got := info.LocalDate.Format("2006-01-02"); got != "2024-01-15" {
		t.Fatalf("LocalDate = %s, want 2024-01-15", got)
	}
}

func TestEmbeddedCreationBeatsCapture(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldCreationDate, "2022-03-04 05:06:07", "container")
	fields.SetString(metadata.FieldCaptureDate, "2021-01-01 00:00:00", "container")

	info := newExtractor(t).Extract(missingPath(t, "clip.mp4"), fields)
	if info.Source != dates.SourceEmbeddedCreation {
		t.Fatalf("Source = %s", info.Source)
	}
	if info.Confidence != 0.9 {
		t.Fatalf("Confidence = %v", info.Confidence)
	}
}

func TestEmbeddedCaptureLevel(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldCaptureDate, "2021-08-09T10:11:12Z", "container")

	info := newExtractor(t).Extract(missingPath(t, "clip.mov"), fields)
	if info.Source != dates.SourceEmbeddedCapture {
		t.Fatalf("Source = %s", info.Source)
	}
	want := time.Date(2021, 8, 9, 10, 11, 12, 0, time.UTC)
	if !info.UTC.Equal(want) {
		t.Fatalf("UTC = %v", info.UTC)
	}
}

func TestEmbeddedRejectsFilesystemProvenance(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetTime(metadata.FieldCreationDate, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), metadata.ProvenanceFilesystem)

	info := newExtractor(t).Extract(missingPath(t, "odd.bin"), fields)
	if info.Source == dates.SourceEmbeddedCreation {
		t.Fatal("filesystem-provenance value must not satisfy the embedded level")
	}
}

func TestModifiedTimeLevel(t *testing.T) {
	modified := time.Date(2019, 11, 12, 13, 14, 15, 0, time.UTC)
	fields := metadata.Fields{}
	fields.SetTime(metadata.FieldModifiedTime, modified, metadata.ProvenanceFilesystem)

	info := newExtractor(t).Extract(missingPath(t, "notes.txt"), fields)
	if info.Source != dates.SourceFileModified {
		t.Fatalf("Source = %s", info.Source)
	}
	if info.Confidence != 0.6 {
		t.Fatalf("Confidence = %v", info.Confidence)
	}
	if !info.UTC.Equal(modified) {
		t.Fatalf("UTC = %v", info.UTC)
	}
}

func TestFilenamePatterns(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"scan_2024-01-15_invoice.pdf", "2024-01-15"},
		{"IMG_20230704_fireworks.jpg", "2023-07-04"},
		{"report_2022_12_31_final.docx", "2022-12-31"},
	}
	e := newExtractor(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := e.Extract(missingPath(t, tc.name), metadata.Fields{})
			if info.Source != dates.SourceFilename {
				t.Fatalf("Source = %s", info.Source)
			}
			if info.Confidence != 0.7 {
				t.Fatalf("Confidence = %v", info.Confidence)
			}
			if got := info.LocalDate.Format("2006-01-02"); got != tc.want {
				t.Fatalf("LocalDate = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFilenameRejectsImpossibleDates(t *testing.T) {
	info := newExtractor(t).Extract(missingPath(t, "scan_2024-02-31_oops.pdf"), metadata.Fields{})
	if info.Source == dates.SourceFilename {
		t.Fatal("February 31st must not parse as a filename date")
	}
}

func TestCurrentTimeFallback(t *testing.T) {
	before := time.Now().UTC()
	info := newExtractor(t).Extract(missingPath(t, "nodate.bin"), metadata.Fields{})
	after := time.Now().UTC()

	if info.Source != dates.SourceCurrentTime {
		t.Fatalf("Source = %s", info.Source)
	}
	if info.Confidence != 0.0 {
		t.Fatalf("Confidence = %v", info.Confidence)
	}
	if info.UTC.Before(before) || info.UTC.After(after) {
		t.Fatalf("UTC %v outside [%v, %v]", info.UTC, before, after)
	}
}

func TestNeverNaiveAndConfidenceBounds(t *testing.T) {
	inputs := []metadata.Fields{
		{},
		func() metadata.Fields {
			f := metadata.Fields{}
			f.SetString(metadata.FieldEXIFDateTimeOriginal, "garbage", "exif")
			return f
		}(),
		func() metadata.Fields {
			f := metadata.Fields{}
			f.SetString(metadata.FieldCreationDate, "2024-05-06 07:08:09", "container")
			return f
		}(),
	}
	e := newExtractor(t)
	for i, fields := range inputs {
		info := e.Extract(missingPath(t, "f.bin"), fields)
		if info.UTC.IsZero() {
			t.Fatalf("case %d: zero instant", i)
		}
		if info.UTC.Location() != time.UTC {
			t.Fatalf("case %d: non-UTC location %v", i, info.UTC.Location())
		}
		if info.Confidence < 0.0 || info.Confidence > 1.0 {
			t.Fatalf("case %d: confidence %v out of range", i, info.Confidence)
		}
		if info.LocalDate.IsZero() {
			t.Fatalf("case %d: zero local date", i)
		}
	}
}

func TestBatchResolvesEveryFile(t *testing.T) {
	entries := map[string]metadata.Fields{
		missingPath(t, "a_2024-01-01.jpg"): {},
		missingPath(t, "b.bin"):            {},
	}
	results := newExtractor(t).Batch(entries)
	if len(results) != len(entries) {
		t.Fatalf("got %d results, want %d", len(results), len(entries))
	}
	for path, info := range results {
		if info.UTC.IsZero() {
			t.Fatalf("%s: zero instant", path)
		}
	}
}
