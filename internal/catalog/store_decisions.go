package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertDecision records a pending organization attempt before any
// filesystem work begins.
func (s *Store) InsertDecision(ctx context.Context, decision *Decision) error {
	if decision == nil {
		return errors.New("decision is nil")
	}
	decision.Status = DecisionPending
	decision.CreatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO decisions (
            id, batch_id, source_path, destination_path, category,
            status, error_message, created_at, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		decision.ID,
		decision.BatchID,
		decision.SourcePath,
		nullableString(decision.DestinationPath),
		nullableString(decision.Category),
		decision.Status,
		nullableString(decision.ErrorMessage),
		decision.CreatedAt.Format(time.RFC3339Nano),
		nil,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// CompleteDecision marks a decision with its terminal status.
func (s *Store) CompleteDecision(ctx context.Context, id, status, errorMessage string) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE decisions SET status = ?, error_message = ?, completed_at = ? WHERE id = ?`,
		status,
		nullableString(errorMessage),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("complete decision: %w", err)
	}
	return nil
}

// PendingDecisions returns decisions that never reached a terminal status,
// ordered oldest first. A non-empty result at startup means a previous run
// died mid-flight.
func (s *Store) PendingDecisions(ctx context.Context) ([]*Decision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE status = ? ORDER BY created_at`,
		DecisionPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending decisions: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

// ListDecisions returns the newest decisions up to limit.
func (s *Store) ListDecisions(ctx context.Context, limit int) ([]*Decision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+decisionColumns+` FROM decisions ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

// DecisionsForBatch returns every decision in one run.
func (s *Store) DecisionsForBatch(ctx context.Context, batchID string) ([]*Decision, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE batch_id = ? ORDER BY created_at`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query batch decisions: %w", err)
	}
	defer rows.Close()
	return collectDecisions(rows)
}

func collectDecisions(rows *sql.Rows) ([]*Decision, error) {
	var decisions []*Decision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, decision)
	}
	return decisions, rows.Err()
}

// RecordDuplicate notes a redundant copy and where it was parked.
func (s *Store) RecordDuplicate(ctx context.Context, record *DuplicateRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.RecordedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO duplicates (
            content_hash, canonical_path, duplicate_path, stored_path, recorded_at
        ) VALUES (?, ?, ?, ?, ?)`,
		record.ContentHash,
		record.CanonicalPath,
		record.DuplicatePath,
		record.StoredPath,
		record.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record duplicate: %w", err)
	}
	record.ID, _ = res.LastInsertId()
	return nil
}

// RecordQuarantine notes a file set aside after a failure.
func (s *Store) RecordQuarantine(ctx context.Context, record *QuarantineRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.RecordedAt = time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO quarantine (
            source_path, quarantine_path, error_type, message, recorded_at
        ) VALUES (?, ?, ?, ?, ?)`,
		record.SourcePath,
		record.QuarantinePath,
		record.ErrorType,
		nullableString(record.Message),
		record.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record quarantine: %w", err)
	}
	record.ID, _ = res.LastInsertId()
	return nil
}
