package vectrace

import (
	"errors"
	"fmt"
	"io"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/vecfile"
)

// ErrNoData is returned when a log parses but yields no records.
// Test for it with errors.Is.
var ErrNoData = engine.ErrNoData

// Correlate reads a vector log from r and returns its records sorted by
// timestamp.
func Correlate(r io.Reader, opts ...Option) ([]Record, error) {
	lines, err := vecfile.Lines(r)
	if err != nil {
		return nil, fmt.Errorf("vectrace: %w", err)
	}
	return CorrelateLines(lines, opts...)
}

// CorrelateLines correlates an already split log.
func CorrelateLines(lines []string, opts ...Option) ([]Record, error) {
	eng := newEngine(opts)
	res, err := eng.Process(lines)
	return convert(res), err
}

// CorrelateFile reads the log at path. Files ending in .zst or .gz are
// decompressed. A missing file satisfies errors.Is(err, fs.ErrNotExist).
func CorrelateFile(path string, opts ...Option) ([]Record, error) {
	eng := newEngine(opts)
	res, err := eng.ProcessFile(path)
	if err != nil && !errors.Is(err, ErrNoData) {
		return nil, fmt.Errorf("vectrace: %w", err)
	}
	return convert(res), err
}

func newEngine(opts []Option) *engine.Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return engine.New(engineConfig(o), engine.WithLogger(o.logger))
}

// convert never returns nil so callers can range and marshal freely.
func convert(res engine.Result) []Record {
	out := make([]Record, len(res.Records))
	for i, r := range res.Records {
		out[i] = recordFromModel(r)
	}
	return out
}
