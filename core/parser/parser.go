package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/tags"
)

const bom = "\uFEFF"

// Config controls a single parse.
type Config struct {
	// Strict requires the first non-blank line to equal the sentinel.
	// Otherwise it only has to start with it.
	Strict bool

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

// Option configures a parse.
type Option func(*Config)

// WithStrict toggles exact sentinel matching.
func WithStrict(strict bool) Option {
	return func(c *Config) { c.Strict = strict }
}

// WithLogger sets the logger for debug events.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) { c.Logger = log }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Parse converts OpenITI mARkdown text into a Document.
//
// The first non-blank line must carry the sentinel, or Parse returns a
// *errors.FormatError. A page tag whose groups cannot be read returns a
// *errors.MalformedTagError naming the line. Lines that match no rule are
// skipped.
func Parse(text string, opts ...Option) (*ir.Document, error) {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}

	lines := strings.Split(strings.TrimPrefix(text, bom), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	start, err := findSentinel(lines, cfg.Strict)
	if err != nil {
		return nil, err
	}

	doc := &ir.Document{
		OrigText:   text,
		MagicValue: lines[start],
		Content:    []ir.Content{},
	}

	cls := NewClassifier(cfg.Logger)
	skipped := 0
	for i := start + 1; i < len(lines); i++ {
		res, err := cls.Classify(lines[i], i+1)
		if err != nil {
			return nil, err
		}
		if res.Meta != nil {
			doc.Metadata = append(doc.Metadata, *res.Meta)
		}
		doc.Content = append(doc.Content, res.Nodes...)
		if res.Rule == RuleNone && strings.TrimSpace(lines[i]) != "" {
			skipped++
		}
	}

	if skipped > 0 {
		cfg.Logger.Debug("skipped unrecognized lines", "count", skipped)
	}
	return doc, nil
}

// findSentinel returns the index of the first non-blank line after checking
// that it carries the sentinel.
func findSentinel(lines []string, strict bool) (int, error) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		ok := strings.HasPrefix(trimmed, tags.MagicValue)
		if strict {
			ok = trimmed == tags.MagicValue
		}
		if !ok {
			return 0, errors.NewFormat(i+1,
				fmt.Sprintf("expected %q as the first line, got %q", tags.MagicValue, truncate(trimmed, 40)))
		}
		return i, nil
	}
	return 0, errors.NewFormat(0, "input is empty")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
