package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/vectrace/internal/model"
)

func records() []model.CommunicationRecord {
	mk := func(ts float64, recv, size int, iat float64) model.CommunicationRecord {
		return model.CommunicationRecord{
			Timestamp: ts, SenderID: 0, ReceiverID: recv, PacketSize: size,
			InterArrivalTime: iat, PacketType: "ATTACK", SenderIsAttacker: true, Label: "ATTACK",
		}
	}
	return []model.CommunicationRecord{
		mk(1.002, 1, 512, 0),
		mk(1.003, 2, 512, 0),
		mk(1.052, 1, 512, 0.05),
		mk(1.102, 1, 1024, 0.05),
	}
}

func column(t *testing.T, s Summary, name string) ColumnStats {
	t.Helper()
	for _, c := range s.Columns {
		if c.Column == name {
			return c
		}
	}
	t.Fatalf("column %q not found", name)
	return ColumnStats{}
}

func TestSummarizeCounts(t *testing.T) {
	s := Summarize(records())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 4, s.Labels["ATTACK"])
	assert.Equal(t, 0, s.Labels["NORMAL"])
	assert.Equal(t, []int{1, 2}, s.ReceiverIDs())
	assert.Equal(t, 3, s.Receivers[1])

	_, err := uuid.Parse(s.RunID)
	assert.NoError(t, err)
}

func TestSummarizeDescribe(t *testing.T) {
	s := Summarize(records())

	size := column(t, s, "packet_size")
	assert.Equal(t, 4, size.Count)
	assert.InDelta(t, 640.0, size.Mean, 1e-9)
	assert.InDelta(t, 256.0, size.Std, 1e-9)
	assert.Equal(t, 512.0, size.Min)
	assert.Equal(t, 512.0, size.P25)
	assert.Equal(t, 512.0, size.P50)
	assert.Equal(t, 640.0, size.P75)
	assert.Equal(t, 1024.0, size.Max)

	att := column(t, s, "is_sender_attacker")
	assert.Equal(t, 1.0, att.Mean)
}

func TestSummarizeSingleRecordStdIsNaN(t *testing.T) {
	s := Summarize(records()[:1])
	assert.True(t, math.IsNaN(column(t, s, "timestamp").Std))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.Columns)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	assert.Contains(t, buf.String(), "ATTACK: 0")
}

func TestWriteText(t *testing.T) {
	s := Summarize(records())

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, s.RunID)
	assert.Contains(t, out, "Total communications: 4")
	assert.Contains(t, out, "ATTACK: 4")
	assert.Contains(t, out, "NORMAL: 0")
	assert.Contains(t, out, "node[1]: 3")
	assert.Contains(t, out, "inter_arrival_time")
}

func TestWriteTextListsUnknownLabels(t *testing.T) {
	recs := records()
	recs[0].Label = "PROBE"

	var buf bytes.Buffer
	require.NoError(t, Summarize(recs).WriteText(&buf))
	assert.Contains(t, buf.String(), "PROBE: 1")
}

func TestWriteHead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHead(&buf, records(), 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp"))
	assert.True(t, strings.HasPrefix(lines[1], "1.002"))
}

func TestWriteSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset_summary.txt")
	require.NoError(t, WriteSummaryFile(path, Summarize(records())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "V2V COMMUNICATION DATASET SUMMARY"))
	assert.Contains(t, out, "ATTACK communications: 4")
	assert.Contains(t, out, "NORMAL communications: 0")
	assert.Contains(t, out, "  - packet_size")
}

func TestWriteFeatureNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature_names.txt")
	require.NoError(t, WriteFeatureNames(path, []string{"burstiness", "totalPacketsSent"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  1. burstiness\n")
	assert.Contains(t, string(data), "  2. totalPacketsSent\n")
	assert.Contains(t, string(data), "Total: 2 features")
}

func TestReadNDJSON(t *testing.T) {
	in := strings.Join([]string{
		`{"timestamp":1.002,"sender_node_id":0,"receiver_node_id":1,"packet_size":512,"inter_arrival_time":0,"packet_type":"ATTACK","is_sender_attacker":true,"label":"ATTACK"}`,
		``,
		`not json`,
		`[1,2,3]`,
		`{"label":"ATTACK"}`,
		`{"timestamp":1.16,"receiver_node_id":2,"packet_size":512,"inter_arrival_time":0.107,"is_sender_attacker":1,"label":"NORMAL"}`,
	}, "\n")

	recs, skipped, err := ReadNDJSON(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 3, skipped)
	require.Len(t, recs, 2)
	assert.Equal(t, records()[0], recs[0])
	assert.Equal(t, 2, recs[1].ReceiverID)
	assert.Equal(t, 0.107, recs[1].InterArrivalTime)
	assert.True(t, recs[1].SenderIsAttacker)
	assert.Equal(t, "NORMAL", recs[1].Label)
}
