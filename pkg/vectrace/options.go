package vectrace

import (
	"log/slog"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/engine/index"
	"github.com/crimson-sun/vectrace/internal/logging"
)

type options struct {
	scenario     string
	appSlot      string
	window       float64
	primary      string
	size         string
	interArrival string
	attacker     int
	label        string
	packetType   string
	logger       *slog.Logger
}

// Option configures a correlation run.
type Option func(*options)

// WithScenario sets the network module name and the application submodule
// whose vectors are read. Default: "DoSScenario", "app[0]".
func WithScenario(name, appSlot string) Option {
	return func(o *options) {
		o.scenario = name
		o.appSlot = appSlot
	}
}

// WithWindow sets the match window in seconds. A size or inter-arrival
// sample matches when its timestamp differs by strictly less than w.
// Default: 0.01.
func WithWindow(w float64) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithStreams renames the three vectors. The primary name is matched as a
// substring, the others exactly.
func WithStreams(primary, size, interArrival string) Option {
	return func(o *options) {
		o.primary = primary
		o.size = size
		o.interArrival = interArrival
	}
}

// WithAttacker sets the node id reported as sender. Default: 0.
func WithAttacker(id int) Option {
	return func(o *options) {
		o.attacker = id
	}
}

// WithLabel sets the label and packet type of every record. Default: "ATTACK".
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
		o.packetType = label
	}
}

// WithLogger receives the run diagnostics. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	d := engine.DefaultConfig()
	c := d.Correlation
	return options{
		scenario:     index.DefaultScenario,
		appSlot:      index.DefaultAppSlot,
		window:       c.Window,
		primary:      c.Streams.Primary,
		size:         c.Streams.Size,
		interArrival: c.Streams.InterArrival,
		attacker:     c.Roles.SenderID,
		label:        c.Roles.Label,
		packetType:   c.Roles.PacketType,
		logger:       logging.Discard(),
	}
}

// engineConfig maps the options onto the engine configuration.
func engineConfig(o options) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Pattern = index.NewPattern(o.scenario, o.appSlot)
	cfg.Correlation.Window = o.window
	cfg.Correlation.Streams.Primary = o.primary
	cfg.Correlation.Streams.Size = o.size
	cfg.Correlation.Streams.InterArrival = o.interArrival
	cfg.Correlation.Roles.SenderID = o.attacker
	cfg.Correlation.Roles.Label = o.label
	cfg.Correlation.Roles.PacketType = o.packetType
	return cfg
}
