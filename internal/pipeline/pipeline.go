// Package pipeline orchestrates a full organization run: discovery, metadata
// extraction, decision making, and verified moves across a worker pool.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"curator/internal/catalog"
	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/dates"
	"curator/internal/duplicates"
	"curator/internal/folders"
	"curator/internal/integrity"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/mover"
	"curator/internal/naming"
	"curator/internal/organizer"
	"curator/internal/quarantine"
	"curator/internal/services"
	"curator/internal/txn"
)

// Pipeline wires every organization component into a runnable whole.
type Pipeline struct {
	logger     *slog.Logger
	cfg        *config.Config
	store      *catalog.Store
	dispatcher *metadata.Dispatcher
	classes    *classify.Engine
	dater      *dates.Extractor
	organizer  *organizer.Organizer
	folders    *folders.Manager
	hasher     *integrity.Hasher
	mover      *mover.Mover
	duplicates *duplicates.Handler
	quarantine *quarantine.Handler
	txn        *txn.Runner
	lock       *flock.Flock
	onProgress ProgressFunc
}

// OnProgress registers a callback invoked after each file completes. It must
// be set before Run starts.
func (p *Pipeline) OnProgress(fn ProgressFunc) {
	p.onProgress = fn
}

// New constructs a pipeline from configuration and an open catalog.
func New(logger *slog.Logger, cfg *config.Config, store *catalog.Store) (*Pipeline, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("pipeline requires config and store")
	}
	hasher, err := integrity.NewHasher(cfg.Integrity.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	generator, err := naming.NewGenerator(logger, cfg.Naming.Pattern, cfg.Naming.MaxFilenameLength)
	if err != nil {
		return nil, err
	}

	classes := classify.NewEngine(logger, cfg.Run.AmbiguityThreshold)
	dater := dates.NewExtractor(logger)
	mv := mover.New(logger, hasher)

	return &Pipeline{
		logger:     logging.WithComponent(logger, "pipeline"),
		cfg:        cfg,
		store:      store,
		dispatcher: metadata.NewDispatcher(logger),
		classes:    classes,
		dater:      dater,
		organizer:  organizer.New(logger, cfg, classes, dater, generator),
		folders:    folders.NewManager(logger, cfg.Naming.MaxPathLength),
		hasher:     hasher,
		mover:      mv,
		duplicates: duplicates.NewHandler(logger, cfg, mv, store),
		quarantine: quarantine.NewHandler(logger, cfg, store),
		txn:        txn.NewRunner(logger),
		lock:       flock.New(filepath.Join(cfg.Paths.LogDir, "curator.lock")),
	}, nil
}

// Discover lists the regular files waiting in the inbox, sorted for
// deterministic processing order. Hidden files are skipped.
func (p *Pipeline) Discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.cfg.Paths.InboxDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != p.cfg.Paths.InboxDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, string(StageDiscovering), "walk",
			fmt.Sprintf("scan inbox %s", p.cfg.Paths.InboxDir), err)
	}
	sort.Strings(files)
	return files, nil
}

// Run organizes everything in the inbox. Exactly one run may hold the vault
// at a time; a second concurrent run fails fast instead of racing. Results
// are collected by a single goroutine so progress accounting never races.
func (p *Pipeline) Run(ctx context.Context) (*BatchReport, error) {
	locked, err := p.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire vault lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another curator run is already organizing this vault")
	}
	defer func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release vault lock", logging.Error(err))
		}
	}()

	if err := p.Reconcile(ctx); err != nil {
		return nil, err
	}

	files, err := p.Discover()
	if err != nil {
		return nil, err
	}

	report := &BatchReport{
		BatchID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	ctx = services.WithBatchID(ctx, report.BatchID)
	p.logger.Info("run started",
		logging.String(logging.FieldBatchID, report.BatchID),
		logging.Int("files", len(files)),
		logging.Int("workers", p.cfg.Run.Workers))

	jobs := make(chan string)
	resultCh := make(chan ProcessingResult)

	var workers sync.WaitGroup
	for i := 0; i < p.cfg.Run.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for path := range jobs {
				resultCh <- p.processFile(ctx, path)
			}
		}()
	}

	var collector sync.WaitGroup
	collector.Add(1)
	go func() {
		defer collector.Done()
		progress := Progress{Total: len(files)}
		for result := range resultCh {
			progress.Processed++
			switch result.Status {
			case StatusSuccess:
				progress.Successful++
			case StatusDuplicate:
				progress.Duplicates++
			case StatusQuarantined:
				progress.Quarantined++
			case StatusFailed:
				progress.Failed++
			}
			report.Results = append(report.Results, result)
			p.logger.Info("file processed",
				logging.String(logging.FieldFile, result.SourcePath),
				logging.String("status", string(result.Status)),
				logging.Int("done", progress.Processed),
				logging.Int("total", progress.Total))
			if p.onProgress != nil {
				p.onProgress(progress)
			}
		}
	}()

	// Cooperative stop: a cancelled context stops feeding the pool; files
	// already handed to workers run to completion so nothing is left half
	// moved.
feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			p.logger.Info("stop requested; finishing in-flight files")
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	workers.Wait()
	close(resultCh)
	collector.Wait()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].SourcePath < report.Results[j].SourcePath
	})
	report.Ambiguous = p.classes.Ambiguous()
	report.Elapsed = time.Since(report.StartedAt)

	p.logger.Info("run finished",
		logging.String(logging.FieldBatchID, report.BatchID),
		logging.Int("success", report.Count(StatusSuccess)),
		logging.Int("duplicates", report.Count(StatusDuplicate)),
		logging.Int("quarantined", report.Count(StatusQuarantined)),
		logging.Int("failed", report.Count(StatusFailed)),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// Preview computes every decision for the current inbox without moving a
// single file or touching the catalog.
func (p *Pipeline) Preview(ctx context.Context) ([]organizer.Decision, error) {
	files, err := p.Discover()
	if err != nil {
		return nil, err
	}
	entries := make(map[string]metadata.Fields, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entries[path] = p.extract(path)
	}
	return p.organizer.Preview(entries, files)
}

// extract gathers metadata for one file: a stat baseline, a classification
// probe, then the extractor families the detected type calls for.
func (p *Pipeline) extract(path string) metadata.Fields {
	fields, err := p.dispatcher.Extract(path, "")
	if err != nil {
		p.logger.Debug("metadata baseline failed",
			logging.String(logging.FieldFile, path), logging.Error(err))
		fields = metadata.Fields{}
	}
	probe := p.classes.Probe(path, fields)
	enriched, err := p.dispatcher.Extract(path, probe.MIMEType)
	if err != nil {
		return fields
	}
	return enriched
}
