package model

// ScalarMetric is one end-of-run scalar recorded by a node's application.
type ScalarMetric struct {
	NodeID int
	Metric string
	Value  float64
}
