package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"curator/internal/catalog"
	"curator/internal/testsupport"
)

func TestInsertAndFindByHash(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	record := &catalog.FileRecord{
		ContentHash:    "abc123",
		SizeBytes:      42,
		OriginalPath:   "/inbox/a.jpg",
		VaultPath:      "/vault/photos/2024/2024-01/2024-01-15/a.jpg",
		Category:       "photos",
		DateSource:     "exif_datetime_original",
		DateConfidence: 0.95,
		TakenAt:        time.Date(2024, 1, 15, 9, 0, 22, 0, time.UTC),
	}
	id, err := store.InsertFile(ctx, record)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("no id assigned")
	}

	found, err := store.FindByHash(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("hash not found")
	}
	if found.VaultPath != record.VaultPath {
		t.Fatalf("VaultPath = %s", found.VaultPath)
	}
	if found.DateConfidence != 0.95 {
		t.Fatalf("DateConfidence = %v", found.DateConfidence)
	}
	if !found.TakenAt.Equal(record.TakenAt) {
		t.Fatalf("TakenAt = %v", found.TakenAt)
	}

	missing, err := store.FindByHash(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatal("unknown hash returned a record")
	}
}

func TestInsertFileRejectsDuplicateHash(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := &catalog.FileRecord{
		ContentHash: "samehash", SizeBytes: 1,
		OriginalPath: "/inbox/a.jpg", VaultPath: "/vault/a.jpg",
		Category: "photos", DateSource: "current_time",
	}
	if _, err := store.InsertFile(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := &catalog.FileRecord{
		ContentHash: "samehash", SizeBytes: 1,
		OriginalPath: "/inbox/b.jpg", VaultPath: "/vault/b.jpg",
		Category: "photos", DateSource: "current_time",
	}
	if _, err := store.InsertFile(ctx, second); err == nil {
		t.Fatal("duplicate hash accepted")
	}
}

func TestReserveNameIdempotent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	ok, err := store.ReserveName(ctx, "/vault/photos/2024", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("fresh name not reserved")
	}
	ok, err = store.ReserveName(ctx, "/vault/photos/2024", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("taken name reserved twice")
	}

	ok, err = store.ReserveName(ctx, "/vault/photos/2025", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("same name in another directory refused")
	}

	if err := store.ReleaseName(ctx, "/vault/photos/2024", "a.jpg"); err != nil {
		t.Fatal(err)
	}
	ok, err = store.ReserveName(ctx, "/vault/photos/2024", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("released name still taken")
	}
}

func TestDecisionLifecycle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	decision := &catalog.Decision{
		ID:              uuid.NewString(),
		BatchID:         uuid.NewString(),
		SourcePath:      "/inbox/a.jpg",
		DestinationPath: "/vault/photos/a.jpg",
		Category:        "photos",
	}
	if err := store.InsertDecision(ctx, decision); err != nil {
		t.Fatal(err)
	}

	pending, err := store.PendingDecisions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != decision.ID {
		t.Fatalf("pending = %+v", pending)
	}

	if err := store.CompleteDecision(ctx, decision.ID, catalog.DecisionCommitted, ""); err != nil {
		t.Fatal(err)
	}
	pending, err = store.PendingDecisions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after completion = %+v", pending)
	}

	all, err := store.ListDecisions(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("decisions = %d", len(all))
	}
	if all[0].Status != catalog.DecisionCommitted {
		t.Fatalf("Status = %s", all[0].Status)
	}
	if all[0].CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
}

func TestSummarize(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for i, category := range []string{"photos", "photos", "documents"} {
		record := &catalog.FileRecord{
			ContentHash: uuid.NewString(), SizeBytes: int64(i + 1),
			OriginalPath: "/inbox/f", VaultPath: "/vault/f",
			Category: category, DateSource: "current_time",
		}
		if _, err := store.InsertFile(ctx, record); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.RecordDuplicate(ctx, &catalog.DuplicateRecord{
		ContentHash: "h", CanonicalPath: "/vault/a", DuplicatePath: "/inbox/b", StoredPath: "/vault/duplicates/b",
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordQuarantine(ctx, &catalog.QuarantineRecord{
		SourcePath: "/inbox/c", QuarantinePath: "/vault/quarantine/c", ErrorType: "checksum_mismatch",
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Files != 3 {
		t.Fatalf("Files = %d", summary.Files)
	}
	if summary.ByCategory["photos"] != 2 || summary.ByCategory["documents"] != 1 {
		t.Fatalf("ByCategory = %v", summary.ByCategory)
	}
	if summary.Duplicates != 1 || summary.Quarantined != 1 {
		t.Fatalf("Duplicates = %d, Quarantined = %d", summary.Duplicates, summary.Quarantined)
	}
}

func TestNamesRegistryAdapter(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	names := store.Names(context.Background())

	ok, err := names.Reserve("/d", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("fresh name not reserved")
	}
	ok, err = names.Reserve("/d", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("taken name reserved twice")
	}
}

func TestReserveNameConcurrentWorkers(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan bool, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Every worker claims its own name and races on one shared name.
			if _, err := store.ReserveName(ctx, "/d", fmt.Sprintf("own-%d.jpg", n)); err != nil {
				errs <- err
				return
			}
			ok, err := store.ReserveName(ctx, "/d", "contested.jpg")
			if err != nil {
				errs <- err
				return
			}
			wins <- ok
		}(i)
	}
	wg.Wait()
	close(wins)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent reservation failed: %v", err)
	}
	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("contested name won %d times, want 1", won)
	}
}
