// Package engine reconstructs per-packet communication records from an
// OMNeT++ vector log.
//
// A run makes two passes over the same immutable line slice: the index
// pass maps vector ids to their owning node and signal name, and the
// correlation pass joins packetReceived samples with the nearest
// packetSize and interArrivalTime samples of the same node.
package engine
