package output

import (
	"context"

	"github.com/crimson-sun/vectrace/internal/model"
)

// Lazy defers construction of an Output until the first record arrives, so
// a run that produces nothing leaves no file behind.
type Lazy struct {
	open func() (Output, error)
	out  Output
}

// NewLazy wraps a constructor. open is called at most once.
func NewLazy(open func() (Output, error)) *Lazy {
	return &Lazy{open: open}
}

// Opened reports whether the underlying output was created.
func (l *Lazy) Opened() bool { return l.out != nil }

func (l *Lazy) Write(ctx context.Context, rec model.CommunicationRecord) error {
	if l.out == nil {
		out, err := l.open()
		if err != nil {
			return err
		}
		l.out = out
	}
	return l.out.Write(ctx, rec)
}

// Close closes the underlying output if it was ever opened.
func (l *Lazy) Close() error {
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}
