package vectrace

import "github.com/crimson-sun/vectrace/internal/model"

// Record is one received packet.
// This is the stable public type; internal representations may evolve
// independently without breaking consumers.
type Record struct {
	Timestamp        float64 `json:"timestamp"`          // seconds, 3 decimals
	SenderID         int     `json:"sender_node_id"`     // always the attacker
	ReceiverID       int     `json:"receiver_node_id"`   // node that logged the packet
	PacketSize       int     `json:"packet_size"`        // bytes
	InterArrivalTime float64 `json:"inter_arrival_time"` // seconds, 4 decimals; 0 when unmatched
	PacketType       string  `json:"packet_type"`
	SenderIsAttacker bool    `json:"is_sender_attacker"`
	Label            string  `json:"label"`
}

func recordFromModel(r model.CommunicationRecord) Record {
	return Record{
		Timestamp:        r.Timestamp,
		SenderID:         r.SenderID,
		ReceiverID:       r.ReceiverID,
		PacketSize:       r.PacketSize,
		InterArrivalTime: r.InterArrivalTime,
		PacketType:       r.PacketType,
		SenderIsAttacker: r.SenderIsAttacker,
		Label:            r.Label,
	}
}
