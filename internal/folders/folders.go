// Package folders creates vault directory hierarchies safely under
// concurrent access and keeps every generated path segment portable.
package folders

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"curator/internal/hierarchy"
	"curator/internal/logging"
	"curator/internal/services"
)

// Manager creates date hierarchies below a vault root. Creation is
// idempotent, so concurrent workers organizing files for the same day never
// conflict.
type Manager struct {
	logger     *slog.Logger
	maxPathLen int
	dirMode    os.FileMode
}

// CreateResult reports what CreateHierarchy did for one directory, including
// the permission bits in effect on the leaf.
type CreateResult struct {
	Path           string
	AlreadyExisted bool
	Mode           os.FileMode
}

func NewManager(logger *slog.Logger, maxPathLen int) *Manager {
	return &Manager{
		logger:     logging.WithComponent(logger, "folders"),
		maxPathLen: maxPathLen,
		dirMode:    0o755,
	}
}

// CreateHierarchy materializes root/YYYY/YYYY-MM/YYYY-MM-DD and returns the
// absolute leaf path. An existing hierarchy is success, not failure.
func (m *Manager) CreateHierarchy(root string, date time.Time) (CreateResult, error) {
	rel, err := hierarchy.Build(date)
	if err != nil {
		return CreateResult{}, err
	}
	leaf := filepath.Join(root, rel)
	if m.maxPathLen > 0 && len(leaf) > m.maxPathLen {
		return CreateResult{}, services.Wrap(services.ErrResource, "folders", "create_hierarchy",
			fmt.Sprintf("path length %d exceeds limit %d", len(leaf), m.maxPathLen), nil)
	}

	existed := false
	if info, statErr := os.Stat(leaf); statErr == nil && info.IsDir() {
		existed = true
	}
	if err := os.MkdirAll(leaf, m.dirMode); err != nil {
		return CreateResult{}, services.Wrap(services.ErrPermission, "folders", "create_hierarchy",
			fmt.Sprintf("create %s", leaf), err)
	}
	// Report the bits actually on disk; umask may have narrowed the request.
	mode := m.dirMode
	if info, statErr := os.Stat(leaf); statErr == nil {
		mode = info.Mode().Perm()
	}
	if !existed {
		m.logger.Debug("created hierarchy", logging.String("path", leaf))
	}
	return CreateResult{Path: leaf, AlreadyExisted: existed, Mode: mode}, nil
}

// BatchResult pairs one distinct date with its creation outcome. A non-nil
// Err covers only that date; the rest of the batch is unaffected.
type BatchResult struct {
	DateKey string
	Result  CreateResult
	Err     error
}

// CreateBatch creates the hierarchy for every distinct date once. Dates are
// processed in sorted order so directory creation is deterministic, and a
// failing date never blocks the dates after it.
func (m *Manager) CreateBatch(root string, dates []time.Time) []BatchResult {
	distinct := make(map[string]time.Time, len(dates))
	for _, date := range dates {
		distinct[date.Format("2006-01-02")] = date
	}
	keys := make([]string, 0, len(distinct))
	for key := range distinct {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]BatchResult, 0, len(keys))
	for _, key := range keys {
		result, err := m.CreateHierarchy(root, distinct[key])
		results = append(results, BatchResult{DateKey: key, Result: result, Err: err})
	}
	return results
}
