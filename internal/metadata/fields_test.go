package metadata_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"curator/internal/logging"
	"curator/internal/metadata"
)

func TestFieldsTypedAccessors(t *testing.T) {
	fields := metadata.Fields{}
	fields.SetString(metadata.FieldDevice, "Canon EOS R5", "exif:Model")
	fields.SetInt(metadata.FieldSizeBytes, 1024, metadata.ProvenanceFilesystem)
	fields.SetTime(metadata.FieldModifiedTime, time.Unix(1700000000, 0), metadata.ProvenanceFilesystem)

	if v, ok := fields.String(metadata.FieldDevice); !ok || v != "Canon EOS R5" {
		t.Fatalf("String accessor: %q %v", v, ok)
	}
	if _, ok := fields.Int(metadata.FieldDevice); ok {
		t.Fatal("Int accessor must refuse a string-typed field")
	}
	if _, ok := fields.Time(metadata.FieldSizeBytes); ok {
		t.Fatal("Time accessor must refuse an int-typed field")
	}
	if got := fields.Provenance(metadata.FieldDevice); got != "exif:Model" {
		t.Fatalf("Provenance = %q", got)
	}
	if got := fields.Provenance("absent"); got != "" {
		t.Fatalf("Provenance for absent key = %q", got)
	}
}

func TestMergeKeepsExistingKeys(t *testing.T) {
	dst := metadata.Fields{}
	dst.SetString(metadata.FieldDevice, "first", "a")
	src := metadata.Fields{}
	src.SetString(metadata.FieldDevice, "second", "b")
	src.SetString(metadata.FieldTitle, "song", "b")

	dst.Merge(src)
	if v, _ := dst.String(metadata.FieldDevice); v != "first" {
		t.Fatalf("Merge overwrote existing key: %q", v)
	}
	if v, _ := dst.String(metadata.FieldTitle); v != "song" {
		t.Fatalf("Merge dropped new key: %q", v)
	}
}

func TestDispatcherBaselineFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	d := metadata.NewDispatcher(logging.NewNop())
	fields, err := d.Extract(path, "text/plain")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if size, ok := fields.Int(metadata.FieldSizeBytes); !ok || size != 5 {
		t.Fatalf("size field: %d %v", size, ok)
	}
	if _, ok := fields.Time(metadata.FieldModifiedTime); !ok {
		t.Fatal("expected modified_time field")
	}
	if name, _ := fields.String(metadata.FieldOriginalName); name != "report.txt" {
		t.Fatalf("original_name = %q", name)
	}
	if fields.Provenance(metadata.FieldModifiedTime) != metadata.ProvenanceFilesystem {
		t.Fatal("modified_time must carry filesystem provenance")
	}
}

func TestDispatcherToleratesCorruptEmbeddedMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	d := metadata.NewDispatcher(logging.NewNop())
	fields, err := d.Extract(path, "image/jpeg")
	if err != nil {
		t.Fatalf("Extract must degrade, not fail: %v", err)
	}
	if _, ok := fields.Int(metadata.FieldSizeBytes); !ok {
		t.Fatal("baseline fields missing after extractor failure")
	}
}

func TestDispatcherMissingFile(t *testing.T) {
	d := metadata.NewDispatcher(logging.NewNop())
	if _, err := d.Extract(filepath.Join(t.TempDir(), "nope.bin"), "application/octet-stream"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
