// Package pipeline runs one vector log through the engine and into an
// output. A run is synchronous; records are written in timestamp order.
package pipeline
