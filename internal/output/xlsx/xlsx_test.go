package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/output"
)

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v2v_communications.xlsx")
	out, err := New(path)
	require.NoError(t, err)

	require.NoError(t, out.Write(context.Background(), model.CommunicationRecord{
		Timestamp: 1.052, ReceiverID: 1, PacketSize: 512, InterArrivalTime: 0.05,
		PacketType: "ATTACK", SenderIsAttacker: true, Label: "ATTACK",
	}))
	require.NoError(t, out.Write(context.Background(), model.CommunicationRecord{
		Timestamp: 1.053, ReceiverID: 2, PacketSize: 256, Label: "NORMAL",
	}))
	require.NoError(t, out.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, output.Columns, rows[0])
	assert.Equal(t, "1.052", rows[1][0])
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "512", rows[1][3])
	assert.Equal(t, "1", rows[1][6])
	assert.Equal(t, "0", rows[2][6])
	assert.Equal(t, "NORMAL", rows[2][7])
}

func TestRegistered(t *testing.T) {
	_, err := output.Get("xlsx")
	assert.NoError(t, err)
}
