// Package quarantine sets failed files aside by error class so nothing is
// lost when organization goes wrong.
package quarantine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/services"
)

// Sidecar is the JSON report written next to each quarantined file.
type Sidecar struct {
	SourcePath    string    `json:"source_path"`
	ErrorType     string    `json:"error_type"`
	Message       string    `json:"message"`
	QuarantinedAt time.Time `json:"quarantined_at"`
}

// Handler moves failed files into the quarantine area.
type Handler struct {
	logger *slog.Logger
	cfg    *config.Config
	store  *catalog.Store
	now    func() time.Time
}

func NewHandler(logger *slog.Logger, cfg *config.Config, store *catalog.Store) *Handler {
	return &Handler{
		logger: logging.WithComponent(logger, "quarantine"),
		cfg:    cfg,
		store:  store,
		now:    time.Now,
	}
}

// Classify maps a failure to its quarantine subdirectory name.
func Classify(err error) string {
	return string(services.FailureReasonFor(err))
}

// Place moves src into quarantine under the failure's error class. The move
// deliberately skips hash verification: quarantine is the path of last
// resort and must accept files that failed verification in the first place.
// A JSON sidecar preserves the failure context for later review.
func (h *Handler) Place(ctx context.Context, src string, cause error) (string, error) {
	errorType := Classify(cause)
	dir := filepath.Join(h.cfg.QuarantineRoot(), errorType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrPermission, "quarantine", "place",
			fmt.Sprintf("create %s", dir), err)
	}

	stamp := h.now().UTC().Format("20060102-150405")
	base := filepath.Base(src)
	dst := filepath.Join(dir, fmt.Sprintf("%s.%s", base, stamp))
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); err != nil {
			break
		}
		dst = filepath.Join(dir, fmt.Sprintf("%s.%s-%d", base, stamp, n))
	}

	if err := os.Rename(src, dst); err != nil {
		if copyErr := fileutil.CopyFileVerified(src, dst); copyErr != nil {
			return "", services.Wrap(services.ErrTransient, "quarantine", "place",
				fmt.Sprintf("move %s to quarantine", src), copyErr)
		}
		if rmErr := os.Remove(src); rmErr != nil {
			h.logger.Warn("source left behind after quarantine copy",
				logging.String(logging.FieldFile, src), logging.Error(rmErr))
		}
	}

	message := ""
	if cause != nil {
		message = cause.Error()
	}
	h.writeSidecar(dst, Sidecar{
		SourcePath:    src,
		ErrorType:     errorType,
		Message:       message,
		QuarantinedAt: h.now().UTC(),
	})

	if h.store != nil {
		record := &catalog.QuarantineRecord{
			SourcePath:     src,
			QuarantinePath: dst,
			ErrorType:      errorType,
			Message:        message,
		}
		if err := h.store.RecordQuarantine(ctx, record); err != nil {
			h.logger.Error("quarantine record failed",
				logging.String(logging.FieldFile, src), logging.Error(err))
		}
	}

	h.logger.Warn("file quarantined",
		logging.String(logging.FieldFile, src),
		logging.String("error_type", errorType),
		logging.String("quarantine_path", dst))
	return dst, nil
}

// writeSidecar is best effort; a quarantined file without a sidecar is still
// better than a lost file.
func (h *Handler) writeSidecar(dst string, sidecar Sidecar) {
	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(dst+".json", data, 0o644); err != nil {
		h.logger.Warn("sidecar write failed",
			logging.String("path", dst+".json"), logging.Error(err))
	}
}
