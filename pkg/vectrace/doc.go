// Package vectrace correlates OMNeT++ vector logs into per-packet
// communication records.
//
// Quick start:
//
//	recs, err := vectrace.CorrelateFile("results/DoSAttack-#0.vec")
//	if errors.Is(err, vectrace.ErrNoData) {
//	    return // the run recorded no received packets
//	}
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range recs {
//	    fmt.Println(r.Timestamp, r.ReceiverID, r.PacketSize)
//	}
//
// Every packetReceived sample of a node becomes one Record. Its size and
// inter-arrival time come from the first packetSize and interArrivalTime
// samples of the same node within the match window (0.01s by default).
// Records are sorted by timestamp.
package vectrace
