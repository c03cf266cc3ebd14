// Package mover relocates files into the vault with hash verification and
// rollback, so a move either completes intact or leaves the source in place.
package mover

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"curator/internal/fileutil"
	"curator/internal/integrity"
	"curator/internal/logging"
	"curator/internal/services"
)

// Operation records one completed or attempted move. The ID ties filesystem
// work to catalog rows and log lines.
type Operation struct {
	ID          string
	Source      string
	Destination string
	Hash        string
	Size        int64
	Renamed     bool
}

// Mover executes verified moves.
type Mover struct {
	logger *slog.Logger
	hasher *integrity.Hasher
}

func New(logger *slog.Logger, hasher *integrity.Hasher) *Mover {
	return &Mover{
		logger: logging.WithComponent(logger, "mover"),
		hasher: hasher,
	}
}

// Move relocates src to dst. When expectedHash is empty the source is hashed
// first; otherwise the supplied digest is trusted as the pre-move state. The
// destination is re-hashed after the transfer and a mismatch rolls the file
// back, so the source survives any verification failure.
func (m *Mover) Move(src, dst, expectedHash string) (Operation, error) {
	op := Operation{ID: uuid.NewString(), Source: src, Destination: dst}

	info, err := os.Stat(src)
	if err != nil {
		return op, services.Wrap(services.ErrNotFound, "mover", "move",
			fmt.Sprintf("stat %s", src), err)
	}
	op.Size = info.Size()

	if expectedHash == "" {
		expectedHash, _, err = m.hasher.HashFile(src)
		if err != nil {
			return op, err
		}
	}
	op.Hash = expectedHash

	if _, err := os.Lstat(dst); err == nil {
		return op, services.Wrap(services.ErrValidation, "mover", "move",
			fmt.Sprintf("destination %s already exists", dst), nil)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return op, services.Wrap(services.ErrPermission, "mover", "move",
			fmt.Sprintf("create %s", filepath.Dir(dst)), err)
	}

	renameErr := os.Rename(src, dst)
	switch {
	case renameErr == nil:
		op.Renamed = true
	case crossesDevice(renameErr):
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return op, services.Wrap(services.ErrTransient, "mover", "move",
				fmt.Sprintf("copy %s to %s", src, dst), err)
		}
	default:
		return op, services.Wrap(services.ErrPermission, "mover", "move",
			fmt.Sprintf("rename %s to %s", src, dst), renameErr)
	}

	ok, err := m.hasher.Verify(dst, expectedHash)
	if err == nil && !ok {
		err = services.Wrap(services.ErrIntegrity, "mover", "move",
			fmt.Sprintf("hash mismatch after moving %s", src), nil)
	}
	if err != nil {
		m.undo(op)
		return op, err
	}

	if !op.Renamed {
		if rmErr := os.Remove(src); rmErr != nil {
			m.logger.Warn("source left behind after verified copy",
				logging.String(logging.FieldFile, src), logging.Error(rmErr))
		}
	}
	m.logger.Debug("move complete",
		logging.String("operation_id", op.ID),
		logging.String(logging.FieldFile, src),
		logging.String("destination", dst),
		logging.Bool("renamed", op.Renamed))
	return op, nil
}

// undo restores the source after a failed verification. A renamed file moves
// back; a copied file still exists at the source, so only the bad copy is
// removed.
func (m *Mover) undo(op Operation) {
	if op.Renamed {
		if err := m.Rollback(op); err != nil {
			m.logger.Error("rollback failed",
				logging.String("operation_id", op.ID), logging.Error(err))
		}
		return
	}
	_ = os.Remove(op.Destination)
}

// Rollback returns a moved file to its source path. If the source path has
// been reoccupied in the meantime, the file is restored alongside it under a
// recovery suffix instead of overwriting.
func (m *Mover) Rollback(op Operation) error {
	target := op.Source
	if _, err := os.Lstat(target); err == nil {
		target = fmt.Sprintf("%s.recovered-%s", op.Source, op.ID)
		m.logger.Warn("source path reoccupied; restoring under recovery name",
			logging.String(logging.FieldFile, op.Source),
			logging.String("recovery_path", target))
	}
	if err := os.Rename(op.Destination, target); err != nil {
		if crossesDevice(err) {
			if copyErr := fileutil.CopyFileVerified(op.Destination, target); copyErr != nil {
				return services.Wrap(services.ErrTransient, "mover", "rollback",
					fmt.Sprintf("restore %s", op.Source), copyErr)
			}
			return os.Remove(op.Destination)
		}
		return services.Wrap(services.ErrTransient, "mover", "rollback",
			fmt.Sprintf("restore %s", op.Source), err)
	}
	return nil
}

func crossesDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
