// Package runner executes a snippet of code in a fresh interpreter and
// captures what it prints, or the fault trace when it fails.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Language identifies a snippet interpreter
type Language string

const (
	// LanguageStarlark runs snippets as Starlark, a Python dialect
	LanguageStarlark Language = "starlark"
	// LanguageJavaScript runs snippets as ECMAScript 5.1+ through goja
	LanguageJavaScript Language = "javascript"
	// LanguageTengo runs snippets as Tengo, a Go-like script language
	LanguageTengo Language = "tengo"
)

// ValidateLanguage checks if the given language string is valid and returns the Language
func ValidateLanguage(lang string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(lang))) {
	case LanguageStarlark, "python", "py", "star":
		return LanguageStarlark, nil
	case LanguageJavaScript, "js":
		return LanguageJavaScript, nil
	case LanguageTengo:
		return LanguageTengo, nil
	default:
		return "", fmt.Errorf("unknown language: %q (valid options: starlark, javascript, tengo)", lang)
	}
}

// FileName returns the script name used in fault traces for a slot
func (l Language) FileName(slot int) string {
	switch l {
	case LanguageJavaScript:
		return fmt.Sprintf("slot-%d.js", slot)
	case LanguageTengo:
		return fmt.Sprintf("slot-%d.tengo", slot)
	default:
		return fmt.Sprintf("slot-%d.star", slot)
	}
}

// Result represents the outcome of one run.
// Only one channel is meaningful: Output when the run succeeded, Trace
// when it failed. Output printed before a fault is discarded.
type Result struct {
	// RunID identifies the run in log records
	RunID string
	// Output is everything the snippet printed
	Output string
	// Trace describes the fault, including its kind and origin
	Trace string
	// Failed is set when the snippet raised a fault
	Failed bool
	// Truncated is set when Output was cut to MaxOutputChars
	Truncated bool
	// Duration is the wall time of the run
	Duration time.Duration
}

// Text returns whichever channel the result carries
func (r *Result) Text() string {
	if r.Failed {
		return r.Trace
	}
	return r.Output
}

// Engine defines the interface for snippet interpreters
type Engine interface {
	// Language returns the language this engine runs
	Language() Language

	// Run executes code in a brand-new namespace. name is used as the
	// file name in fault traces. Run never returns nil.
	Run(ctx context.Context, name, code string) *Result
}

// Config holds engine limits. The zero value of every limit disables it,
// which lets snippets run unbounded with nothing but their own output.
type Config struct {
	// Language selects the interpreter
	Language Language
	// Timeout cancels a run after this duration (0 = no timeout)
	Timeout time.Duration
	// MaxSteps caps Starlark execution steps (0 = unlimited)
	MaxSteps uint64
	// MaxAllocs caps Tengo object allocations (0 = unlimited)
	MaxAllocs int64
	// MaxOutputChars truncates captured output (0 = unlimited)
	MaxOutputChars int
}

// DefaultConfig returns a Config with no limits
func DefaultConfig() Config {
	return Config{
		Language: LanguageStarlark,
	}
}

// New creates the engine selected by cfg.Language. A nil logger discards records.
func New(cfg Config, logger *slog.Logger) (Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Language == "" {
		cfg.Language = LanguageStarlark
	}

	lang, err := ValidateLanguage(string(cfg.Language))
	if err != nil {
		return nil, err
	}
	cfg.Language = lang

	logger = logger.With("engine", string(lang))
	switch lang {
	case LanguageJavaScript:
		return &javaScriptEngine{config: cfg, logger: logger}, nil
	case LanguageTengo:
		return &tengoEngine{config: cfg, logger: logger}, nil
	default:
		return &starlarkEngine{config: cfg, logger: logger}, nil
	}
}

// runContext derives the context bounding a single run. The returned
// cancel func must always be called; engines rely on it to stop their
// interrupt watchers.
func (c Config) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

// newResult starts a Result with a fresh run ID
func newResult() *Result {
	return &Result{RunID: uuid.NewString()}
}

// finish fills in timing and output limits and logs the outcome
func (c Config) finish(logger *slog.Logger, name string, res *Result, started time.Time) *Result {
	res.Duration = time.Since(started)

	if res.Failed {
		res.Output = ""
	} else if c.MaxOutputChars > 0 && utf8.RuneCountInString(res.Output) > c.MaxOutputChars {
		res.Output = truncateRunes(res.Output, c.MaxOutputChars)
		res.Truncated = true
	}

	attrs := []any{
		"run_id", res.RunID,
		"script", name,
		"failed", res.Failed,
		"duration_ms", res.Duration.Milliseconds(),
		"output_bytes", len(res.Output),
	}
	if res.Failed {
		logger.Info("snippet failed", append(attrs, "trace", res.Trace)...)
	} else {
		logger.Info("snippet finished", attrs...)
	}

	return res
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// printSink collects snippet output for the duration of one run
type printSink struct {
	buf strings.Builder
}

func (p *printSink) println(args ...string) {
	p.buf.WriteString(strings.Join(args, " "))
	p.buf.WriteByte('\n')
}

func (p *printSink) write(s string) {
	p.buf.WriteString(s)
}

func (p *printSink) String() string {
	return p.buf.String()
}
