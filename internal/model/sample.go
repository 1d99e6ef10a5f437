package model

// Sample is one observation on a declared stream.
type Sample struct {
	StreamID  int
	Sequence  int64   // event number, provenance only
	Timestamp float64 // seconds, log-global clock
	Value     float64
}
