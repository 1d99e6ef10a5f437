package output

import (
	"strconv"

	"github.com/crimson-sun/vectrace/internal/model"
)

// Columns is the fixed column order of the communications table.
var Columns = []string{
	"timestamp",
	"sender_node_id",
	"receiver_node_id",
	"packet_size",
	"inter_arrival_time",
	"packet_type",
	"is_sender_attacker",
	"label",
}

// Row formats a record in Columns order. Timestamps keep 3 decimals,
// inter-arrival times 4, and the attacker flag is written as 1 or 0.
func Row(rec model.CommunicationRecord) []string {
	return []string{
		strconv.FormatFloat(rec.Timestamp, 'f', 3, 64),
		strconv.Itoa(rec.SenderID),
		strconv.Itoa(rec.ReceiverID),
		strconv.Itoa(rec.PacketSize),
		strconv.FormatFloat(rec.InterArrivalTime, 'f', 4, 64),
		rec.PacketType,
		boolDigit(rec.SenderIsAttacker),
		rec.Label,
	}
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
