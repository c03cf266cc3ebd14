// Package organizer decides where each file belongs in the vault, combining
// the classified category with the extracted date hierarchy.
package organizer

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/dates"
	"curator/internal/folders"
	"curator/internal/hierarchy"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/naming"
	"curator/internal/services"
)

// Decision is the complete organization plan for one file, computed before
// anything touches the filesystem.
type Decision struct {
	SourcePath      string
	Classification  classify.Result
	Date            dates.Info
	DestinationDir  string
	FinalName       string
	DestinationPath string
}

// Organizer turns extracted metadata into vault destinations.
type Organizer struct {
	logger    *slog.Logger
	cfg       *config.Config
	classes   *classify.Engine
	extractor *dates.Extractor
	generator *naming.Generator
}

func New(logger *slog.Logger, cfg *config.Config, classes *classify.Engine, extractor *dates.Extractor, generator *naming.Generator) *Organizer {
	return &Organizer{
		logger:    logging.WithComponent(logger, "organizer"),
		cfg:       cfg,
		classes:   classes,
		extractor: extractor,
		generator: generator,
	}
}

// CategoryDir returns the vault directory for a classification, without the
// date hierarchy.
func (o *Organizer) CategoryDir(result classify.Result) string {
	dir := filepath.Join(o.cfg.Paths.VaultDir, o.cfg.CategoryFolder(string(result.Category)))
	if result.Subcategory != "" {
		dir = filepath.Join(dir, folders.SanitizeSegment(result.Subcategory))
	}
	return dir
}

// DestinationDir resolves the full directory for a classification and date.
// It is a pure computation; nothing is created on disk.
func (o *Organizer) DestinationDir(result classify.Result, date dates.Info) (string, error) {
	rel, err := hierarchy.Build(date.LocalDate)
	if err != nil {
		return "", err
	}
	return filepath.Join(o.CategoryDir(result), rel), nil
}

// Decide computes the full organization plan for one file. The registry
// guarantees the final name is unique within its destination directory.
func (o *Organizer) Decide(path string, fields metadata.Fields, registry naming.Registry) (Decision, error) {
	if strings.TrimSpace(path) == "" {
		return Decision{}, services.Wrap(services.ErrValidation, "organizer", "decide",
			"empty file path", nil)
	}
	result := o.classes.Classify(path, fields)
	date := o.extractor.Extract(path, fields)

	dir, err := o.DestinationDir(result, date)
	if err != nil {
		return Decision{}, err
	}

	size, _ := fields.Int(metadata.FieldSizeBytes)
	device, _ := fields.String(metadata.FieldDevice)
	name, err := o.generator.Resolve(dir, naming.Input{
		Date:         date.Local,
		Device:       device,
		SizeBytes:    size,
		Category:     result.Category,
		OriginalName: filepath.Base(path),
	}, registry)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		SourcePath:      path,
		Classification:  result,
		Date:            date,
		DestinationDir:  dir,
		FinalName:       name,
		DestinationPath: filepath.Join(dir, name),
	}
	o.logger.Debug("organization decision",
		logging.String(logging.FieldFile, path),
		logging.String("category", string(result.Category)),
		logging.String("destination", decision.DestinationPath),
		logging.Float64("date_confidence", date.Confidence))
	return decision, nil
}

// Preview computes decisions for a batch against an in-memory registry, so
// collision counters appear exactly as a live run would assign them while
// the filesystem stays untouched. A file that cannot be planned degrades to
// a sentinel decision instead of failing the whole preview.
func (o *Organizer) Preview(entries map[string]metadata.Fields, order []string) ([]Decision, error) {
	registry := naming.NewMemoryRegistry()
	decisions := make([]Decision, 0, len(order))
	for _, path := range order {
		decision, err := o.Decide(path, entries[path], registry)
		if err != nil {
			o.logger.Warn("preview decision failed; using fallback",
				logging.String(logging.FieldFile, path), logging.Error(err))
			decision = o.fallbackDecision(path)
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

// fallbackDecision routes an unplannable file to the other category at the
// epoch date so preview output stays complete.
func (o *Organizer) fallbackDecision(path string) Decision {
	result := classify.Result{
		Category:   classify.CategoryOther,
		MIMEType:   "application/octet-stream",
		Method:     classify.MethodFallback,
		Confidence: 0,
	}
	epoch := time.Unix(0, 0).UTC()
	date := dates.Info{
		UTC:       epoch,
		Local:     epoch,
		LocalDate: epoch,
		Source:    dates.SourceCurrentTime,
	}
	dir, err := o.DestinationDir(result, date)
	if err != nil {
		dir = o.CategoryDir(result)
	}
	name := folders.SanitizeSegment(filepath.Base(path))
	return Decision{
		SourcePath:      path,
		Classification:  result,
		Date:            date,
		DestinationDir:  dir,
		FinalName:       name,
		DestinationPath: filepath.Join(dir, name),
	}
}
