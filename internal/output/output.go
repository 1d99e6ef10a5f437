package output

import (
	"context"

	"github.com/crimson-sun/vectrace/internal/model"
)

// Output defines the interface for communication record destinations.
type Output interface {
	Write(ctx context.Context, rec model.CommunicationRecord) error
	Close() error
}
