package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission error")
	ErrIntegrity  = errors.New("integrity error")
	ErrResource   = errors.New("resource error")
	ErrTransient  = errors.New("transient failure")
)

// FailureReason is the closed quarantine taxonomy for classified move failures.
type FailureReason string

const (
	ReasonChecksumMismatch FailureReason = "checksum_mismatch"
	ReasonPermission       FailureReason = "permission_error"
	ReasonDiskSpace        FailureReason = "disk_space_error"
	ReasonPathTooLong      FailureReason = "path_too_long"
	ReasonUnknown          FailureReason = "unknown_error"
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureReasonFor maps an error to the quarantine taxonomy. Sentinel markers
// win; raw filesystem errors are inspected for permission, space, and
// path-length conditions.
func FailureReasonFor(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonUnknown
	case errors.Is(err, ErrIntegrity):
		return ReasonChecksumMismatch
	case errors.Is(err, ErrPermission), errors.Is(err, fs.ErrPermission):
		return ReasonPermission
	case errors.Is(err, syscall.ENOSPC):
		return ReasonDiskSpace
	case errors.Is(err, syscall.ENAMETOOLONG):
		return ReasonPathTooLong
	case errors.Is(err, ErrResource):
		if strings.Contains(err.Error(), "path length") {
			return ReasonPathTooLong
		}
		return ReasonDiskSpace
	default:
		return ReasonUnknown
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
