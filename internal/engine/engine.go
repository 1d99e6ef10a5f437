package engine

import (
	"errors"
	"log/slog"

	"github.com/crimson-sun/vectrace/internal/engine/correlator"
	"github.com/crimson-sun/vectrace/internal/engine/index"
	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/vecfile"
)

// ErrNoData reports a log that parsed but produced no records. It is not a
// failure of the run; callers branch on it with errors.Is.
var ErrNoData = errors.New("no packet data found")

// Config selects the module paths, streams and roles for a run.
type Config struct {
	Pattern     index.Pattern
	Correlation correlator.Config
}

// DefaultConfig returns the DoS scenario defaults.
func DefaultConfig() Config {
	return Config{
		Pattern:     index.DefaultPattern(),
		Correlation: correlator.DefaultConfig(),
	}
}

// Result is the outcome of one run over a log.
type Result struct {
	Records     []model.CommunicationRecord
	Index       index.Stats
	Correlation correlator.Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for diagnostic counts. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine orchestrates the index → correlate passes over one log.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// New creates an Engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Process indexes the stream declarations in lines and correlates the
// samples. When no record qualifies it returns the empty Result together
// with ErrNoData.
func (e *Engine) Process(lines []string) (Result, error) {
	idx, ist := index.Build(lines, e.cfg.Pattern)
	e.log.Debug("stream index built",
		"pattern", e.cfg.Pattern.String(),
		"declarations", ist.Declarations,
		"indexed", ist.Indexed,
		"skipped", ist.Skipped,
		"out_of_scope", ist.OutOfScope)

	recs, cst := correlator.Correlate(lines, idx, e.cfg.Correlation)
	e.log.Info("samples correlated",
		"streams", ist.Indexed,
		"sample_lines", cst.SampleLines,
		"extracted", cst.Primary+cst.Size+cst.InterArrival,
		"primary", cst.Primary,
		"size", cst.Size,
		"inter_arrival", cst.InterArrival,
		"malformed", cst.Malformed,
		"records", len(recs))

	res := Result{Records: recs, Index: ist, Correlation: cst}
	if len(recs) == 0 {
		return res, ErrNoData
	}
	return res, nil
}

// ProcessFile reads the log at path and processes it. A missing file is
// returned as an error satisfying errors.Is(err, fs.ErrNotExist).
func (e *Engine) ProcessFile(path string) (Result, error) {
	lines, err := vecfile.ReadLines(path)
	if err != nil {
		return Result{}, err
	}
	e.log.Debug("vector log loaded", "path", path, "lines", len(lines))
	return e.Process(lines)
}
