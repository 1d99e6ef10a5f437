// Package xlsx writes communication records to an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/output"
)

// SheetName is the worksheet holding the records.
const SheetName = "Communications"

func init() {
	output.Register("xlsx", func(cfg output.Config) (output.Output, error) {
		return New(cfg.Path)
	})
}

// Output streams rows into a single worksheet. The workbook is written to
// disk on Close.
type Output struct {
	mu   sync.Mutex
	f    *excelize.File
	sw   *excelize.StreamWriter
	path string
	row  int
}

// New prepares a workbook destined for path and writes the header row.
func New(path string) (*Output, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx output: sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx output: stream writer: %w", err)
	}

	header := make([]interface{}, len(output.Columns))
	for i, c := range output.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx output: header: %w", err)
	}
	return &Output{f: f, sw: sw, path: path, row: 1}, nil
}

// Write appends a row with numeric cells kept numeric.
func (o *Output) Write(_ context.Context, rec model.CommunicationRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.row++
	cell, err := excelize.CoordinatesToCellName(1, o.row)
	if err != nil {
		return fmt.Errorf("xlsx output: %w", err)
	}
	attacker := 0
	if rec.SenderIsAttacker {
		attacker = 1
	}
	values := []interface{}{
		rec.Timestamp,
		rec.SenderID,
		rec.ReceiverID,
		rec.PacketSize,
		rec.InterArrivalTime,
		rec.PacketType,
		attacker,
		rec.Label,
	}
	if err := o.sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("xlsx output: row %d: %w", o.row, err)
	}
	return nil
}

// Close flushes the sheet and saves the workbook.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.f.Close()

	if err := o.sw.Flush(); err != nil {
		return fmt.Errorf("xlsx output: flush: %w", err)
	}
	if err := o.f.SaveAs(o.path); err != nil {
		return fmt.Errorf("xlsx output: save %s: %w", o.path, err)
	}
	return nil
}
