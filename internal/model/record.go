package model

// CommunicationRecord is one reconstructed packet delivery between two
// vehicles. It is the row type of the communications dataset.
type CommunicationRecord struct {
	Timestamp        float64 `json:"timestamp"`          // rounded to 3 decimals
	SenderID         int     `json:"sender_node_id"`     // fixed by scenario roles
	ReceiverID       int     `json:"receiver_node_id"`   // owner of the primary stream
	PacketSize       int     `json:"packet_size"`        // bytes
	InterArrivalTime float64 `json:"inter_arrival_time"` // seconds, 0 when unmatched
	PacketType       string  `json:"packet_type"`
	SenderIsAttacker bool    `json:"is_sender_attacker"`
	Label            string  `json:"label"`
}
