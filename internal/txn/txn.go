// Package txn couples a filesystem operation with its catalog write: the
// pair either both take effect or the filesystem side is compensated.
package txn

import (
	"log/slog"

	"curator/internal/logging"
)

// Result reports how a coupled operation ended.
type Result struct {
	Committed  bool
	RolledBack bool
	FileErr    error
	DBErr      error
	UndoErr    error
}

// Err returns the error that decided the outcome, if any.
func (r Result) Err() error {
	if r.FileErr != nil {
		return r.FileErr
	}
	return r.DBErr
}

// Runner executes coupled filesystem and database operations.
type Runner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logging.WithComponent(logger, "txn")}
}

// Run performs fileOp, then dbOp. If the filesystem side fails nothing else
// runs. If the database side fails, compensate undoes the filesystem work so
// disk and catalog stay consistent. A failed compensation is surfaced in the
// result and logged; the caller decides whether to quarantine.
func (t *Runner) Run(fileOp func() error, dbOp func() error, compensate func() error) Result {
	if err := fileOp(); err != nil {
		return Result{FileErr: err}
	}

	if err := dbOp(); err != nil {
		result := Result{DBErr: err, RolledBack: true}
		if compensate != nil {
			if undoErr := compensate(); undoErr != nil {
				result.RolledBack = false
				result.UndoErr = undoErr
				t.logger.Error("compensation failed; disk and catalog may disagree",
					logging.Error(undoErr))
			}
		}
		return result
	}

	return Result{Committed: true}
}
