// Package duplicates parks redundant copies outside the main vault tree,
// keyed by content so related copies cluster together.
package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"curator/internal/catalog"
	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/mover"
	"curator/internal/services"
)

// Handler relocates duplicate files and records their lineage.
type Handler struct {
	logger *slog.Logger
	cfg    *config.Config
	mover  *mover.Mover
	store  *catalog.Store
}

func NewHandler(logger *slog.Logger, cfg *config.Config, mv *mover.Mover, store *catalog.Store) *Handler {
	return &Handler{
		logger: logging.WithComponent(logger, "duplicates"),
		cfg:    cfg,
		mover:  mv,
		store:  store,
	}
}

// DestinationDir returns the parking directory for a duplicate detected on
// the given day: duplicates/{date}/{hash prefix}.
func (h *Handler) DestinationDir(contentHash string, day time.Time) string {
	prefix := contentHash
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return filepath.Join(h.cfg.DuplicatesRoot(), day.Format("2006-01-02"), prefix)
}

// Park moves a duplicate out of the inbox and links it to the canonical
// vault file in the catalog. The original filename is kept; a numeric suffix
// resolves clashes inside the parking directory.
func (h *Handler) Park(ctx context.Context, src, contentHash string, canonical *catalog.FileRecord) (string, error) {
	if canonical == nil {
		return "", services.Wrap(services.ErrValidation, "duplicates", "park",
			"no canonical record for duplicate", nil)
	}

	dir := h.DestinationDir(contentHash, time.Now().UTC())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrPermission, "duplicates", "park",
			fmt.Sprintf("create %s", dir), err)
	}

	dst := filepath.Join(dir, filepath.Base(src))
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); err != nil {
			break
		}
		ext := filepath.Ext(src)
		stem := filepath.Base(src)
		stem = stem[:len(stem)-len(ext)]
		dst = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}

	op, err := h.mover.Move(src, dst, contentHash)
	if err != nil {
		return "", err
	}

	record := &catalog.DuplicateRecord{
		ContentHash:   contentHash,
		CanonicalPath: canonical.VaultPath,
		DuplicatePath: src,
		StoredPath:    op.Destination,
	}
	if err := h.store.RecordDuplicate(ctx, record); err != nil {
		return op.Destination, err
	}

	h.logger.Info("duplicate parked",
		logging.String(logging.FieldFile, src),
		logging.String("canonical", canonical.VaultPath),
		logging.String("stored", op.Destination))
	return op.Destination, nil
}
