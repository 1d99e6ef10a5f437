package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/vectrace/internal/model"
	"github.com/crimson-sun/vectrace/internal/output"
)

func init() {
	output.Register("stdout", func(cfg output.Config) (output.Output, error) {
		return New(cfg.Pretty), nil
	})
}

// Output writes JSON-encoded communication records to stdout.
type Output struct {
	enc *json.Encoder
}

// New creates a new stdout Output with optional pretty-printed JSON.
func New(pretty bool) *Output {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

func (o *Output) Write(_ context.Context, rec model.CommunicationRecord) error {
	if err := o.enc.Encode(rec); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
