// Package naming generates deterministic vault filenames from a configured
// pattern and resolves collisions with zero-padded counters.
package naming

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"curator/internal/classify"
	"curator/internal/folders"
	"curator/internal/logging"
	"curator/internal/services"
)

// counterWidth is the zero-padded width of collision counters, giving names
// like photo-00000001.jpg.
const counterWidth = 8

// maxCounter bounds the collision search so a pathological directory cannot
// spin the generator forever.
const maxCounter = 99999999

// Input carries everything the pattern can reference for one file.
type Input struct {
	Date         time.Time
	Device       string
	SizeBytes    int64
	Category     classify.Category
	OriginalName string
}

// Registry records generated names per destination directory so two files
// organized in the same run never claim the same path. Reserve returns false
// when the name is already taken.
type Registry interface {
	Reserve(dir, name string) (bool, error)
}

// Generator renders the filename pattern and enforces length limits.
type Generator struct {
	logger     *slog.Logger
	pattern    []patternPart
	maxNameLen int
}

type patternPart struct {
	token   string
	literal string
}

// Token drop order when a rendered name exceeds the length limit. The date
// is never dropped; it is what makes a vault name self-describing.
var dropOrder = []string{"category", "original", "size", "time", "device"}

func NewGenerator(logger *slog.Logger, pattern string, maxNameLen int) (*Generator, error) {
	parts, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &Generator{
		logger:     logging.WithComponent(logger, "naming"),
		pattern:    parts,
		maxNameLen: maxNameLen,
	}, nil
}

// RenderInfo reports how far a generated name drifted from its raw inputs.
type RenderInfo struct {
	// SanitizedChars counts runes altered or removed while making token
	// values filename-safe.
	SanitizedChars int
	// TruncatedChars counts runes cut by token dropping and the final hard
	// truncation.
	TruncatedChars int
}

// Generate renders the base name for in, without any collision counter. The
// original extension is lowercased and always preserved. The returned info
// records how much sanitization and truncation changed the name.
func (g *Generator) Generate(in Input) (string, RenderInfo) {
	ext := strings.ToLower(filepath.Ext(in.OriginalName))

	var info RenderInfo
	dropped := map[string]bool{}
	full := g.render(in, dropped, &info) + ext
	name := full
	for _, token := range dropOrder {
		if len(name) <= g.maxNameLen {
			break
		}
		dropped[token] = true
		name = g.render(in, dropped, nil) + ext
	}
	if len(name) > g.maxNameLen {
		keep := g.maxNameLen - len(ext)
		if keep < 1 {
			keep = 1
		}
		name = name[:keep] + ext
	}
	if diff := len([]rune(full)) - len([]rune(name)); diff > 0 {
		info.TruncatedChars = diff
	}
	return name, info
}

// Resolve reserves a collision-free name for in within dir. When the base
// name is taken, counters are appended before the extension until a free
// slot is found.
func (g *Generator) Resolve(dir string, in Input, registry Registry) (string, error) {
	base, _ := g.Generate(in)
	ok, err := registry.Reserve(dir, base)
	if err != nil {
		return "", err
	}
	if ok {
		return base, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; n <= maxCounter; n++ {
		candidate := fmt.Sprintf("%s-%0*d%s", stem, counterWidth, n, ext)
		if len(candidate) > g.maxNameLen {
			trim := len(candidate) - g.maxNameLen
			if trim >= len(stem) {
				return "", services.Wrap(services.ErrResource, "naming", "resolve",
					fmt.Sprintf("cannot fit counter into %q within %d chars", base, g.maxNameLen), nil)
			}
			candidate = fmt.Sprintf("%s-%0*d%s", stem[:len(stem)-trim], counterWidth, n, ext)
		}
		ok, err := registry.Reserve(dir, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			if n > 1 {
				g.logger.Debug("collision counter advanced",
					logging.String("name", candidate), logging.Int("attempts", n))
			}
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrResource, "naming", "resolve",
		fmt.Sprintf("collision counter exhausted for %q", base), nil)
}

func (g *Generator) render(in Input, dropped map[string]bool, info *RenderInfo) string {
	segments := make([]string, 0, len(g.pattern))
	for _, part := range g.pattern {
		if part.literal != "" {
			segments = append(segments, part.literal)
			continue
		}
		if dropped[part.token] {
			segments = append(segments, "")
			continue
		}
		value, sanitized := renderToken(part.token, in)
		if info != nil {
			info.SanitizedChars += sanitized
		}
		segments = append(segments, value)
	}
	return cleanJoined(strings.Join(segments, ""))
}

func renderToken(token string, in Input) (string, int) {
	switch token {
	case "date":
		return in.Date.Format("2006-01-02"), 0
	case "time":
		return in.Date.Format("150405"), 0
	case "device":
		value := sanitizeToken(in.Device)
		return value, runeDiff(strings.TrimSpace(in.Device), value)
	case "size":
		if in.SizeBytes <= 0 {
			return "", 0
		}
		return fmt.Sprintf("%d", in.SizeBytes), 0
	case "category":
		return string(in.Category), 0
	case "original":
		stem := strings.TrimSuffix(in.OriginalName, filepath.Ext(in.OriginalName))
		value := sanitizeToken(stem)
		return value, runeDiff(strings.TrimSpace(stem), value)
	default:
		return "", 0
	}
}

// runeDiff counts positions where two strings disagree, plus the length gap.
func runeDiff(before, after string) int {
	a, b := []rune(before), []rune(after)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diff++
		}
	}
	return diff
}

// sanitizeToken makes a metadata value safe inside a filename.
func sanitizeToken(value string) string {
	value = norm.NFC.String(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = folders.SanitizeSegment(value)
	value = strings.ReplaceAll(value, " ", "_")
	return value
}

// cleanJoined collapses separator runs left behind by empty tokens and trims
// leading and trailing separators.
func cleanJoined(name string) string {
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	name = strings.Trim(name, "-_")
	if name == "" {
		return "unnamed"
	}
	return name
}

var knownTokens = map[string]struct{}{
	"date": {}, "time": {}, "device": {}, "size": {}, "category": {}, "original": {},
}

func parsePattern(pattern string) ([]patternPart, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, services.Wrap(services.ErrValidation, "naming", "parse_pattern",
			"empty filename pattern", nil)
	}
	var parts []patternPart
	rest := pattern
	sawDate := false
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			parts = append(parts, patternPart{literal: rest})
			break
		}
		if open > 0 {
			parts = append(parts, patternPart{literal: rest[:open]})
		}
		closeIdx := strings.IndexByte(rest[open:], '}')
		if closeIdx < 0 {
			return nil, services.Wrap(services.ErrValidation, "naming", "parse_pattern",
				fmt.Sprintf("unterminated token in pattern %q", pattern), nil)
		}
		token := rest[open+1 : open+closeIdx]
		if _, ok := knownTokens[token]; !ok {
			return nil, services.Wrap(services.ErrValidation, "naming", "parse_pattern",
				fmt.Sprintf("unknown token %q in pattern %q", token, pattern), nil)
		}
		if token == "date" {
			sawDate = true
		}
		parts = append(parts, patternPart{token: token})
		rest = rest[open+closeIdx+1:]
	}
	if !sawDate {
		return nil, services.Wrap(services.ErrValidation, "naming", "parse_pattern",
			fmt.Sprintf("pattern %q must include {date}", pattern), nil)
	}
	return parts, nil
}
