package catalog

import (
	"database/sql"
	"errors"
	"time"
)

const fileColumns = "id, content_hash, size_bytes, original_path, vault_path, category, subcategory, date_source, date_confidence, taken_at, organized_at"

const decisionColumns = "id, batch_id, source_path, destination_path, category, status, error_message, created_at, completed_at"

func scanFile(scanner interface{ Scan(dest ...any) error }) (*FileRecord, error) {
	var (
		id           int64
		contentHash  string
		sizeBytes    int64
		originalPath string
		vaultPath    string
		category     string
		subcategory  sql.NullString
		dateSource   string
		confidence   sql.NullFloat64
		takenRaw     sql.NullString
		organizedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&contentHash,
		&sizeBytes,
		&originalPath,
		&vaultPath,
		&category,
		&subcategory,
		&dateSource,
		&confidence,
		&takenRaw,
		&organizedRaw,
	); err != nil {
		return nil, err
	}

	record := &FileRecord{
		ID:             id,
		ContentHash:    contentHash,
		SizeBytes:      sizeBytes,
		OriginalPath:   originalPath,
		VaultPath:      vaultPath,
		Category:       category,
		Subcategory:    subcategory.String,
		DateSource:     dateSource,
		DateConfidence: confidence.Float64,
	}
	if takenRaw.Valid {
		if taken, err := parseTimeString(takenRaw.String); err == nil {
			record.TakenAt = taken
		}
	}
	if organized, err := parseTimeString(organizedRaw.String); err == nil {
		record.OrganizedAt = organized
	}
	return record, nil
}

func scanDecision(scanner interface{ Scan(dest ...any) error }) (*Decision, error) {
	var (
		id           string
		batchID      string
		sourcePath   string
		destination  sql.NullString
		category     sql.NullString
		status       string
		errorMessage sql.NullString
		createdRaw   sql.NullString
		completedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&batchID,
		&sourcePath,
		&destination,
		&category,
		&status,
		&errorMessage,
		&createdRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	decision := &Decision{
		ID:              id,
		BatchID:         batchID,
		SourcePath:      sourcePath,
		DestinationPath: destination.String,
		Category:        category.String,
		Status:          status,
		ErrorMessage:    errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		decision.CreatedAt = created
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			decision.CompletedAt = &completed
		}
	}
	return decision, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
