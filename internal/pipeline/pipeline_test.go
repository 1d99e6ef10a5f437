package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/engine/testdata"
	"github.com/crimson-sun/vectrace/internal/metrics"
	"github.com/crimson-sun/vectrace/internal/model"
)

// --- mocks ---

type mockProcessor struct {
	res engine.Result
	err error
}

func (m *mockProcessor) ProcessFile(string) (engine.Result, error) {
	return m.res, m.err
}

type mockOutput struct {
	mu      sync.Mutex
	records []model.CommunicationRecord
	failAt  int // 1-based; 0 never fails
	closed  bool
}

func (m *mockOutput) Write(_ context.Context, r model.CommunicationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	if m.failAt > 0 && len(m.records) == m.failAt {
		return errors.New("mock: write failed")
	}
	return nil
}

func (m *mockOutput) Close() error {
	m.closed = true
	return nil
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func recs(n int) []model.CommunicationRecord {
	out := make([]model.CommunicationRecord, n)
	for i := range out {
		out[i] = model.CommunicationRecord{Timestamp: float64(i), ReceiverID: 1, PacketSize: 512}
	}
	return out
}

// --- tests ---

func TestRunWritesAllRecordsInOrder(t *testing.T) {
	out := &mockOutput{}
	p := New(&mockProcessor{res: engine.Result{Records: recs(5)}}, out, quiet())

	res, err := p.Run(context.Background(), "run.vec")
	require.NoError(t, err)

	assert.Len(t, res.Records, 5)
	assert.Equal(t, res.Records, out.records)
}

func TestRunNoDataPassesThrough(t *testing.T) {
	out := &mockOutput{}
	p := New(&mockProcessor{res: engine.Result{Records: recs(0)}, err: engine.ErrNoData}, out, quiet())

	_, err := p.Run(context.Background(), "run.vec")
	assert.Equal(t, engine.ErrNoData, err)
	assert.Empty(t, out.records)
}

func TestRunProcessErrorWrapped(t *testing.T) {
	missing := fmt.Errorf("vecfile: open x.vec: %w", fs.ErrNotExist)
	p := New(&mockProcessor{err: missing}, &mockOutput{}, quiet())

	_, err := p.Run(context.Background(), "x.vec")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "pipeline process")
}

func TestRunOutputErrorStops(t *testing.T) {
	out := &mockOutput{failAt: 2}
	p := New(&mockProcessor{res: engine.Result{Records: recs(5)}}, out, quiet())

	_, err := p.Run(context.Background(), "run.vec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.Len(t, out.records, 2)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := &mockOutput{}
	p := New(&mockProcessor{res: engine.Result{Records: recs(3)}}, out, quiet())

	_, err := p.Run(ctx, "run.vec")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.records)
}

func TestRunRecordsMetrics(t *testing.T) {
	m := metrics.New()
	p := New(&mockProcessor{res: engine.Result{Records: recs(4)}}, &mockOutput{}, quiet(), WithMetrics(m))

	_, err := p.Run(context.Background(), "run.vec")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(m.Registry(), "vectrace_records_emitted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClose(t *testing.T) {
	out := &mockOutput{}
	p := New(&mockProcessor{}, out, quiet())
	require.NoError(t, p.Close())
	assert.True(t, out.closed)
}

// TestRunWithEngine drives the real engine over the embedded fixture.
func TestRunWithEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DoSAttack-#0.vec")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(testdata.DoSAttackLines(), "\n")+"\n"), 0o644))

	eng := engine.New(engine.DefaultConfig(), engine.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	out := &mockOutput{}
	p := New(eng, out, quiet())

	res, err := p.Run(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, out.records, 6)
	assert.Equal(t, res.Records, out.records)
	for i := 1; i < len(out.records); i++ {
		assert.LessOrEqual(t, out.records[i-1].Timestamp, out.records[i].Timestamp)
	}
}
