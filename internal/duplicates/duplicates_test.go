package duplicates_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"curator/internal/catalog"
	"curator/internal/duplicates"
	"curator/internal/integrity"
	"curator/internal/logging"
	"curator/internal/mover"
	"curator/internal/testsupport"
)

func TestParkMovesAndRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	hasher, err := integrity.NewHasher("sha256")
	if err != nil {
		t.Fatal(err)
	}
	handler := duplicates.NewHandler(logging.NewNop(), cfg, mover.New(logging.NewNop(), hasher), store)

	src := testsupport.InboxFile(t, cfg.Paths.InboxDir, "copy.jpg", []byte("shared bytes"))
	hash, _, err := hasher.HashFile(src)
	if err != nil {
		t.Fatal(err)
	}

	canonical := &catalog.FileRecord{
		ContentHash: hash, SizeBytes: 12,
		OriginalPath: "/inbox/first.jpg",
		VaultPath:    filepath.Join(cfg.Paths.VaultDir, "photos", "first.jpg"),
		Category:     "photos", DateSource: "current_time",
	}
	if _, err := store.InsertFile(ctx, canonical); err != nil {
		t.Fatal(err)
	}

	stored, err := handler.Park(ctx, src, hash, canonical)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); err == nil {
		t.Fatal("source still present")
	}
	if _, err := os.Stat(stored); err != nil {
		t.Fatal(err)
	}
	wantDir := filepath.Join(cfg.DuplicatesRoot(), time.Now().UTC().Format("2006-01-02"), hash[:4])
	if filepath.Dir(stored) != wantDir {
		t.Fatalf("stored in %s, want %s", filepath.Dir(stored), wantDir)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Duplicates != 1 {
		t.Fatalf("Duplicates = %d", summary.Duplicates)
	}
}

func TestParkResolvesNameClash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	hasher, _ := integrity.NewHasher("sha256")
	handler := duplicates.NewHandler(logging.NewNop(), cfg, mover.New(logging.NewNop(), hasher), store)

	canonical := &catalog.FileRecord{
		ContentHash: "irrelevant", SizeBytes: 1,
		OriginalPath: "/inbox/a.jpg", VaultPath: "/vault/a.jpg",
		Category: "photos", DateSource: "current_time",
	}
	if _, err := store.InsertFile(ctx, canonical); err != nil {
		t.Fatal(err)
	}

	first := testsupport.InboxFile(t, cfg.Paths.InboxDir, "same.jpg", []byte("one"))
	hash1, _, _ := hasher.HashFile(first)
	stored1, err := handler.Park(ctx, first, hash1, canonical)
	if err != nil {
		t.Fatal(err)
	}

	// Same name, same leading hash characters forced via identical content.
	second := testsupport.InboxFile(t, cfg.Paths.InboxDir, "same.jpg", []byte("one"))
	stored2, err := handler.Park(ctx, second, hash1, canonical)
	if err != nil {
		t.Fatal(err)
	}
	if stored1 == stored2 {
		t.Fatalf("clash not resolved: %s", stored1)
	}
	if !strings.Contains(filepath.Base(stored2), "same-1") {
		t.Fatalf("stored2 = %s", stored2)
	}
}
