package pipeline

import "time"

// Status is the terminal outcome for one processed file.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusDuplicate   Status = "duplicate"
	StatusQuarantined Status = "quarantined"
	StatusFailed      Status = "failed"
)

// Stage names the phase a file is in while the pipeline works on it.
type Stage string

const (
	StageDiscovering Stage = "discovering"
	StageIngesting   Stage = "ingesting"
	StageExtracting  Stage = "extracting"
	StageOrganizing  Stage = "organizing"
	StageRenaming    Stage = "renaming"
	StageMoving      Stage = "moving"
)

// ProcessingResult is the per-file outcome of a run. Every discovered file
// produces exactly one result regardless of how processing went.
type ProcessingResult struct {
	SourcePath      string
	Status          Status
	DestinationPath string
	Category        string
	Subcategory     string
	ContentHash     string
	DateSource      string
	DateConfidence  float64
	Error           string
	Elapsed         time.Duration
}

// Progress is a read-only counter snapshot for a running batch. Counters
// advance exactly once per completed file.
type Progress struct {
	Total       int
	Processed   int
	Successful  int
	Duplicates  int
	Quarantined int
	Failed      int
}

// ProgressFunc observes batch progress. Callbacks run on the single result
// collector goroutine, after each file reaches a terminal status, so
// implementations need no locking of their own.
type ProgressFunc func(Progress)

// BatchReport aggregates one pipeline run.
type BatchReport struct {
	BatchID   string
	StartedAt time.Time
	Elapsed   time.Duration
	Results   []ProcessingResult
	Ambiguous []string
}

// Count returns how many results ended with the given status.
func (r *BatchReport) Count(status Status) int {
	n := 0
	for _, result := range r.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}
