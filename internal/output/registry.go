package output

import (
	"fmt"
	"slices"
)

// Config holds destination settings shared by all formats. Formats ignore
// fields that do not apply to them.
type Config struct {
	Path     string
	Pretty   bool  // indented JSON (stdout)
	Compress bool  // zstd-compressed NDJSON (file)
	MaxSize  int64 // rotation threshold in bytes, 0 = never (file)
}

// Constructor creates an Output from a Config.
type Constructor func(cfg Config) (Output, error)

var registry = map[string]Constructor{}

// Register adds an output constructor under the given format name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the constructor for the given format name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return ctor, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
