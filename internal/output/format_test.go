package output

import (
	"testing"

	"github.com/crimson-sun/vectrace/internal/model"
)

func TestRowMatchesColumns(t *testing.T) {
	row := Row(model.CommunicationRecord{})
	if len(row) != len(Columns) {
		t.Fatalf("Row has %d fields, Columns has %d", len(row), len(Columns))
	}
}

func TestRowFormatting(t *testing.T) {
	rec := model.CommunicationRecord{
		Timestamp:        1.5,
		SenderID:         0,
		ReceiverID:       2,
		PacketSize:       512,
		InterArrivalTime: 0.05,
		PacketType:       "ATTACK",
		SenderIsAttacker: true,
		Label:            "ATTACK",
	}
	want := []string{"1.500", "0", "2", "512", "0.0500", "ATTACK", "1", "ATTACK"}

	got := Row(rec)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %s = %q, want %q", Columns[i], got[i], want[i])
		}
	}
}

func TestRowAttackerFlagFalse(t *testing.T) {
	got := Row(model.CommunicationRecord{Label: "NORMAL"})
	if got[6] != "0" {
		t.Errorf("is_sender_attacker = %q, want 0", got[6])
	}
}
