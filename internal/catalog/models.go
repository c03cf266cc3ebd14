package catalog

import "time"

// Decision statuses. A decision starts pending, becomes one of the terminal
// statuses when the file settles, and is reconciled at startup if the
// process died in between.
const (
	DecisionPending     = "pending"
	DecisionCommitted   = "committed"
	DecisionDuplicate   = "duplicate"
	DecisionQuarantined = "quarantined"
	DecisionFailed      = "failed"
	DecisionRolledBack  = "rolled_back"
)

// FileRecord is one organized file in the vault.
type FileRecord struct {
	ID             int64
	ContentHash    string
	SizeBytes      int64
	OriginalPath   string
	VaultPath      string
	Category       string
	Subcategory    string
	DateSource     string
	DateConfidence float64
	TakenAt        time.Time
	OrganizedAt    time.Time
}

// Decision is the persisted record of one organization attempt.
type Decision struct {
	ID              string
	BatchID         string
	SourcePath      string
	DestinationPath string
	Category        string
	Status          string
	ErrorMessage    string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// DuplicateRecord links a redundant copy to its canonical vault file.
type DuplicateRecord struct {
	ID            int64
	ContentHash   string
	CanonicalPath string
	DuplicatePath string
	StoredPath    string
	RecordedAt    time.Time
}

// QuarantineRecord notes a file set aside after a failure.
type QuarantineRecord struct {
	ID             int64
	SourcePath     string
	QuarantinePath string
	ErrorType      string
	Message        string
	RecordedAt     time.Time
}

// Summary aggregates catalog contents for run reports.
type Summary struct {
	Files       int64
	ByCategory  map[string]int64
	Duplicates  int64
	Quarantined int64
}
