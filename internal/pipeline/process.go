package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"curator/internal/catalog"
	"curator/internal/logging"
	"curator/internal/mover"
	"curator/internal/services"
)

// vaultRegistry combines the catalog's durable name reservations with an
// on-disk existence check, so restarts and by-hand vault edits both count.
type vaultRegistry struct {
	names *catalog.NameRegistry
}

func (r *vaultRegistry) Reserve(dir, name string) (bool, error) {
	if _, err := os.Lstat(filepath.Join(dir, name)); err == nil {
		return false, nil
	}
	return r.names.Reserve(dir, name)
}

// processFile takes one inbox file through extraction, decision, and the
// verified move. It always returns a result; failures end in quarantine or
// a failed record, never a panic or a lost file.
func (p *Pipeline) processFile(ctx context.Context, path string) (result ProcessingResult) {
	started := time.Now()
	result = ProcessingResult{SourcePath: path}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("file processing panicked",
				logging.String(logging.FieldFile, path), logging.Any("panic", r))
			result.Status = StatusFailed
			result.Error = "internal error during processing"
		}
		result.Elapsed = time.Since(started)
	}()

	ctx = services.WithFile(ctx, path)
	batchID, _ := services.BatchIDFromContext(ctx)
	log := p.logger.With(logging.String(logging.FieldFile, path))

	log.Debug("stage", logging.String(logging.FieldStage, string(StageIngesting)))
	hash, size, err := p.hasher.HashFile(path)
	if err != nil {
		return p.fail(ctx, result, nil, err)
	}
	result.ContentHash = hash

	log.Debug("stage", logging.String(logging.FieldStage, string(StageExtracting)))
	fields := p.extract(path)

	log.Debug("stage", logging.String(logging.FieldStage, string(StageOrganizing)))
	canonical, err := p.store.FindByHash(ctx, hash)
	if err != nil {
		return p.fail(ctx, result, nil, err)
	}
	if canonical != nil {
		return p.parkDuplicate(ctx, result, batchID, canonical)
	}

	log.Debug("stage", logging.String(logging.FieldStage, string(StageRenaming)))
	registry := &vaultRegistry{names: p.store.Names(ctx)}
	decision, err := p.organizer.Decide(path, fields, registry)
	if err != nil {
		return p.fail(ctx, result, nil, err)
	}
	result.DestinationPath = decision.DestinationPath
	result.Category = string(decision.Classification.Category)
	result.Subcategory = decision.Classification.Subcategory
	result.DateSource = string(decision.Date.Source)
	result.DateConfidence = decision.Date.Confidence

	record := &catalog.Decision{
		ID:              uuid.NewString(),
		BatchID:         batchID,
		SourcePath:      path,
		DestinationPath: decision.DestinationPath,
		Category:        result.Category,
	}
	if err := p.store.InsertDecision(ctx, record); err != nil {
		return p.fail(ctx, result, nil, err)
	}

	if _, err := p.folders.CreateHierarchy(p.organizer.CategoryDir(decision.Classification), decision.Date.LocalDate); err != nil {
		return p.fail(ctx, result, record, err)
	}

	log.Debug("stage", logging.String(logging.FieldStage, string(StageMoving)))
	fileRecord := &catalog.FileRecord{
		ContentHash:    hash,
		SizeBytes:      size,
		OriginalPath:   path,
		VaultPath:      decision.DestinationPath,
		Category:       result.Category,
		Subcategory:    result.Subcategory,
		DateSource:     result.DateSource,
		DateConfidence: result.DateConfidence,
		TakenAt:        decision.Date.UTC,
	}

	var moveOp mover.Operation
	outcome := p.txn.Run(
		func() error {
			var err error
			moveOp, err = p.mover.Move(path, decision.DestinationPath, hash)
			return err
		},
		func() error {
			if _, err := p.store.InsertFile(ctx, fileRecord); err != nil {
				return err
			}
			return p.store.CompleteDecision(ctx, record.ID, catalog.DecisionCommitted, "")
		},
		func() error { return p.mover.Rollback(moveOp) },
	)
	if !outcome.Committed {
		p.releaseName(ctx, decision.DestinationDir, decision.FinalName)
		if outcome.UndoErr != nil {
			// The file is stuck in the vault with no catalog row. Surface it
			// loudly; reconciliation will pick the decision up at next start.
			p.logger.Error("vault and catalog disagree after failed commit",
				logging.String(logging.FieldFile, path),
				logging.String("destination", decision.DestinationPath),
				logging.Error(outcome.UndoErr))
		}
		return p.fail(ctx, result, record, outcome.Err())
	}

	result.Status = StatusSuccess
	return result
}

// parkDuplicate routes a file whose content already lives in the vault.
func (p *Pipeline) parkDuplicate(ctx context.Context, result ProcessingResult, batchID string, canonical *catalog.FileRecord) ProcessingResult {
	record := &catalog.Decision{
		ID:         uuid.NewString(),
		BatchID:    batchID,
		SourcePath: result.SourcePath,
		Category:   canonical.Category,
	}
	if err := p.store.InsertDecision(ctx, record); err != nil {
		return p.fail(ctx, result, nil, err)
	}

	stored, err := p.duplicates.Park(ctx, result.SourcePath, result.ContentHash, canonical)
	if err != nil {
		return p.fail(ctx, result, record, err)
	}
	if err := p.store.CompleteDecision(ctx, record.ID, catalog.DecisionDuplicate, ""); err != nil {
		p.logger.Error("decision update failed",
			logging.String(logging.FieldFile, result.SourcePath), logging.Error(err))
	}

	result.Status = StatusDuplicate
	result.DestinationPath = stored
	result.Category = canonical.Category
	return result
}

// fail quarantines the file and records the terminal status. When even
// quarantine fails the file stays where it is and the result reports the
// failure.
func (p *Pipeline) fail(ctx context.Context, result ProcessingResult, record *catalog.Decision, cause error) ProcessingResult {
	result.Error = cause.Error()

	quarantinePath, qErr := p.quarantine.Place(ctx, result.SourcePath, cause)
	if qErr != nil {
		p.logger.Error("quarantine failed; file left in place",
			logging.String(logging.FieldFile, result.SourcePath),
			logging.Error(qErr))
		result.Status = StatusFailed
		if record != nil {
			p.completeDecision(ctx, record.ID, catalog.DecisionFailed, cause.Error())
		}
		return result
	}

	result.Status = StatusQuarantined
	result.DestinationPath = quarantinePath
	if record != nil {
		p.completeDecision(ctx, record.ID, catalog.DecisionQuarantined, cause.Error())
	}
	return result
}

func (p *Pipeline) completeDecision(ctx context.Context, id, status, message string) {
	if err := p.store.CompleteDecision(ctx, id, status, message); err != nil {
		p.logger.Error("decision update failed", logging.Error(err))
	}
}

func (p *Pipeline) releaseName(ctx context.Context, dir, name string) {
	if err := p.store.ReleaseName(ctx, dir, name); err != nil {
		p.logger.Warn("name release failed",
			logging.String("dir", dir), logging.String("name", name), logging.Error(err))
	}
}
