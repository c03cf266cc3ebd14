package quarantine_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"curator/internal/logging"
	"curator/internal/quarantine"
	"curator/internal/services"
	"curator/internal/testsupport"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrIntegrity, "mover", "move", "bad hash", nil), "checksum_mismatch"},
		{fs.ErrPermission, "permission_error"},
		{syscall.ENOSPC, "disk_space_error"},
		{syscall.ENAMETOOLONG, "path_too_long"},
		{errors.New("mystery"), "unknown_error"},
	}
	for _, tc := range cases {
		if got := quarantine.Classify(tc.err); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestPlaceMovesFileWithSidecar(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := quarantine.NewHandler(logging.NewNop(), cfg, store)

	src := testsupport.InboxFile(t, cfg.Paths.InboxDir, "broken.jpg", []byte("bytes"))
	cause := services.Wrap(services.ErrIntegrity, "mover", "move", "hash mismatch", nil)

	dst, err := handler.Place(context.Background(), src, cause)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); err == nil {
		t.Fatal("source still present")
	}
	wantDir := filepath.Join(cfg.QuarantineRoot(), "checksum_mismatch")
	if filepath.Dir(dst) != wantDir {
		t.Fatalf("dst dir = %s, want %s", filepath.Dir(dst), wantDir)
	}

	data, err := os.ReadFile(dst + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var sidecar quarantine.Sidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		t.Fatal(err)
	}
	if sidecar.ErrorType != "checksum_mismatch" {
		t.Fatalf("ErrorType = %s", sidecar.ErrorType)
	}
	if sidecar.SourcePath != src {
		t.Fatalf("SourcePath = %s", sidecar.SourcePath)
	}

	summary, err := store.Summarize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Quarantined != 1 {
		t.Fatalf("Quarantined = %d", summary.Quarantined)
	}
}

func TestPlaceResolvesNameClash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := quarantine.NewHandler(logging.NewNop(), cfg, nil)

	a := testsupport.InboxFile(t, cfg.Paths.InboxDir, "f.bin", []byte("a"))
	dstA, err := handler.Place(context.Background(), a, errors.New("boom"))
	if err != nil {
		t.Fatal(err)
	}

	b := testsupport.InboxFile(t, cfg.Paths.InboxDir, "f.bin", []byte("b"))
	dstB, err := handler.Place(context.Background(), b, errors.New("boom"))
	if err != nil {
		t.Fatal(err)
	}
	if dstA == dstB {
		t.Fatalf("clash not resolved: %s", dstA)
	}
}
