package services_test

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIntegrity, "moving", "verify hash", "destination digest differs", base)
	if !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "moving", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFailureReasonFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.FailureReason
	}{
		{"nil", nil, services.ReasonUnknown},
		{"integrity", services.Wrap(services.ErrIntegrity, "moving", "verify", "", nil), services.ReasonChecksumMismatch},
		{"permission sentinel", services.Wrap(services.ErrPermission, "moving", "open", "", nil), services.ReasonPermission},
		{"fs permission", fs.ErrPermission, services.ReasonPermission},
		{"enospc", syscall.ENOSPC, services.ReasonDiskSpace},
		{"enametoolong", syscall.ENAMETOOLONG, services.ReasonPathTooLong},
		{"resource path length", services.Wrap(services.ErrResource, "organizing", "validate", "path length 412 exceeds limit", nil), services.ReasonPathTooLong},
		{"plain", errors.New("mystery"), services.ReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.FailureReasonFor(tc.err); got != tc.want {
				t.Fatalf("FailureReasonFor(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}
