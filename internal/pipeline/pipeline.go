package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/metrics"
	"github.com/crimson-sun/vectrace/internal/output"
)

// Processor turns a vector log file into communication records.
type Processor interface {
	ProcessFile(path string) (engine.Result, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records the diagnostic counts of every run.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) { p.metrics = r }
}

// WithLogger sets the pipeline logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline connects a processor and an output.
type Pipeline struct {
	proc    Processor
	output  output.Output
	metrics *metrics.Recorder
	log     *slog.Logger
}

// New creates a Pipeline from the given components.
func New(proc Processor, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		proc:   proc,
		output: out,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes the log at path and writes every record, in order, to the
// output. engine.ErrNoData is returned unwrapped and nothing is written.
// The context is checked between writes.
func (p *Pipeline) Run(ctx context.Context, path string) (engine.Result, error) {
	res, err := p.proc.ProcessFile(path)
	if err != nil && !errors.Is(err, engine.ErrNoData) {
		return res, fmt.Errorf("pipeline process: %w", err)
	}
	if p.metrics != nil {
		p.metrics.Observe(res)
	}
	if err != nil {
		p.log.Warn("no communications found", "path", path)
		return res, err
	}

	for i, rec := range res.Records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := p.output.Write(ctx, rec); err != nil {
			return res, fmt.Errorf("pipeline output: record %d: %w", i, err)
		}
	}
	p.log.Info("records written", "path", path, "records", len(res.Records))
	return res, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
