package model

// StreamDeclaration identifies one named time series in a vector log.
type StreamDeclaration struct {
	StreamID   int
	EntityID   int    // owning simulated vehicle (node index)
	StreamName string // e.g. packetReceived, packetSize, interArrivalTime
}
