package pipeline

import (
	"context"
	"errors"
	"os"

	"curator/internal/catalog"
	"curator/internal/logging"
)

// Reconcile settles decisions left pending by a crashed run. Each pending
// decision is resolved from what actually landed on disk: the move either
// completed or it did not, so either the destination exists or the source
// does.
func (p *Pipeline) Reconcile(ctx context.Context) error {
	pending, err := p.store.PendingDecisions(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	p.logger.Warn("reconciling decisions from an interrupted run",
		logging.Int("pending", len(pending)))

	for _, decision := range pending {
		status, message := p.settle(ctx, decision)
		if err := p.store.CompleteDecision(ctx, decision.ID, status, message); err != nil {
			return err
		}
		p.logger.Info("decision reconciled",
			logging.String(logging.FieldFile, decision.SourcePath),
			logging.String("status", status))
	}
	return nil
}

func (p *Pipeline) settle(ctx context.Context, decision *catalog.Decision) (string, string) {
	destExists := decision.DestinationPath != "" && exists(decision.DestinationPath)
	srcExists := exists(decision.SourcePath)

	switch {
	case destExists && !srcExists:
		// The move finished; make sure the catalog row exists too.
		if err := p.ensureFileRow(ctx, decision); err != nil {
			return catalog.DecisionFailed, "moved but not cataloged: " + err.Error()
		}
		return catalog.DecisionCommitted, ""
	case srcExists && !destExists:
		return catalog.DecisionFailed, "interrupted before the move completed"
	case srcExists && destExists:
		// Both present means the copy happened but the source was never
		// removed. Leave both; a rerun will detect the duplicate by hash.
		return catalog.DecisionFailed, "interrupted mid-copy; source retained"
	default:
		return catalog.DecisionFailed, "neither source nor destination found"
	}
}

// ensureFileRow backfills the files table for a move that completed on disk
// but died before its catalog write.
func (p *Pipeline) ensureFileRow(ctx context.Context, decision *catalog.Decision) error {
	hash, size, err := p.hasher.HashFile(decision.DestinationPath)
	if err != nil {
		return err
	}
	existing, err := p.store.FindByHash(ctx, hash)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = p.store.InsertFile(ctx, &catalog.FileRecord{
		ContentHash:  hash,
		SizeBytes:    size,
		OriginalPath: decision.SourcePath,
		VaultPath:    decision.DestinationPath,
		Category:     decision.Category,
		DateSource:   "reconciled",
	})
	return err
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}
