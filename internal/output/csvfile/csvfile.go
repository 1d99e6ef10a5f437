// Package csvfile writes communication records as a CSV table.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/output"
)

func init() {
	output.Register("csv", func(cfg output.Config) (output.Output, error) {
		return New(cfg.Path)
	})
}

// Output writes one CSV row per record after a header row.
type Output struct {
	mu   sync.Mutex
	f    *os.File
	buf  *bufio.Writer
	w    *csv.Writer
	path string
}

// New truncates path and writes the header.
func New(path string) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv output: create %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)
	if err := w.Write(output.Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv output: header: %w", err)
	}
	return &Output{f: f, buf: buf, w: w, path: path}, nil
}

func (o *Output) Write(_ context.Context, rec model.CommunicationRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Write(output.Row(rec)); err != nil {
		return fmt.Errorf("csv output: write: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.w.Flush()
	if err := o.w.Error(); err != nil {
		o.f.Close()
		return fmt.Errorf("csv output: flush %s: %w", o.path, err)
	}
	if err := o.buf.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("csv output: flush %s: %w", o.path, err)
	}
	return o.f.Close()
}
