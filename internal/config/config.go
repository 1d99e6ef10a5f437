package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/vectrace/internal/engine"
	"github.com/crimson-sun/vectrace/internal/engine/correlator"
	"github.com/crimson-sun/vectrace/internal/engine/index"
	"github.com/crimson-sun/vectrace/internal/scalar"
)

// Formats lists the output formats a config may name.
var Formats = []string{"csv", "ndjson", "stdout", "xlsx"}

// Config holds all vectrace configuration.
type Config struct {
	Scenario    ScenarioConfig `yaml:"scenario"`
	Streams     StreamsConfig  `yaml:"streams"`
	Engine      EngineConfig   `yaml:"engine"`
	Output      OutputConfig   `yaml:"output"`
	LogLevel    string         `yaml:"log_level"`
	MetricsFile string         `yaml:"metrics_file"`
}

// ScenarioConfig describes the simulated network and its fixed roles.
type ScenarioConfig struct {
	Name       string `yaml:"name"`
	AppSlot    string `yaml:"app_slot"`
	AttackerID int    `yaml:"attacker_id"`
	Label      string `yaml:"label"`
	PacketType string `yaml:"packet_type"`
}

// StreamsConfig names the vectors that are correlated.
type StreamsConfig struct {
	Primary      string `yaml:"primary"`
	Size         string `yaml:"size"`
	InterArrival string `yaml:"inter_arrival"`
}

// EngineConfig holds correlation settings.
type EngineConfig struct {
	MatchWindow float64 `yaml:"match_window"` // seconds
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Format   string `yaml:"format"` // one format or a comma-separated list
	Path     string `yaml:"path"`
	Pretty   bool   `yaml:"pretty"`
	Compress bool   `yaml:"compress"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Scenario: ScenarioConfig{
			Name:       getenv("VECTRACE_SCENARIO", index.DefaultScenario),
			AppSlot:    getenv("VECTRACE_APP_SLOT", index.DefaultAppSlot),
			AttackerID: getenvInt("VECTRACE_ATTACKER_ID", 0),
			Label:      getenv("VECTRACE_LABEL", "ATTACK"),
			PacketType: getenv("VECTRACE_PACKET_TYPE", "ATTACK"),
		},
		Streams: StreamsConfig{
			Primary:      getenv("VECTRACE_STREAM_PRIMARY", "packetReceived"),
			Size:         getenv("VECTRACE_STREAM_SIZE", "packetSize"),
			InterArrival: getenv("VECTRACE_STREAM_IAT", "interArrivalTime"),
		},
		Engine: EngineConfig{
			MatchWindow: getenvFloat("VECTRACE_MATCH_WINDOW", correlator.DefaultWindow),
		},
		Output: OutputConfig{
			Format:   getenv("VECTRACE_OUTPUT", "xlsx"),
			Path:     os.Getenv("VECTRACE_OUTPUT_PATH"),
			Pretty:   getenvBool("VECTRACE_OUTPUT_PRETTY", false),
			Compress: getenvBool("VECTRACE_OUTPUT_COMPRESS", false),
		},
		LogLevel:    getenv("VECTRACE_LOG_LEVEL", "info"),
		MetricsFile: os.Getenv("VECTRACE_METRICS_FILE"),
	}
}

// LoadFile overlays the YAML file at path on base. Keys absent from the
// file keep their base values; unknown keys are an error.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every setting that would make a run meaningless.
func (c Config) Validate() error {
	var errs []error
	if !(c.Engine.MatchWindow > 0) {
		errs = append(errs, fmt.Errorf("config: match window must be positive, got %v", c.Engine.MatchWindow))
	}
	for name, v := range map[string]string{
		"primary":       c.Streams.Primary,
		"size":          c.Streams.Size,
		"inter_arrival": c.Streams.InterArrival,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("config: stream %s is empty", name))
		}
	}
	if c.Scenario.Name == "" || c.Scenario.AppSlot == "" {
		errs = append(errs, errors.New("config: scenario name and app slot are required"))
	}
	for _, f := range c.Output.FormatList() {
		if !slices.Contains(Formats, f) {
			errs = append(errs, fmt.Errorf("config: unknown output format %q (known: %s)", f, strings.Join(Formats, ", ")))
		}
	}
	if len(c.Output.FormatList()) == 0 {
		errs = append(errs, errors.New("config: no output format"))
	}
	return errors.Join(errs...)
}

// FormatList splits Format on commas, dropping blanks.
func (o OutputConfig) FormatList() []string {
	var out []string
	for _, f := range strings.Split(o.Format, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// DefaultPath returns the conventional file name for a format.
func DefaultPath(format string) string {
	switch format {
	case "stdout":
		return ""
	case "xlsx":
		return "v2v_communications.xlsx"
	default:
		return "v2v_communications." + format
	}
}

// ToEngine converts the settings into an engine configuration.
func (c Config) ToEngine() engine.Config {
	return engine.Config{
		Pattern: index.NewPattern(c.Scenario.Name, c.Scenario.AppSlot),
		Correlation: correlator.Config{
			Streams: correlator.Streams{
				Primary:      c.Streams.Primary,
				Size:         c.Streams.Size,
				InterArrival: c.Streams.InterArrival,
			},
			Roles: correlator.Roles{
				SenderID:         c.Scenario.AttackerID,
				PacketType:       c.Scenario.PacketType,
				Label:            c.Scenario.Label,
				SenderIsAttacker: true,
			},
			Window: c.Engine.MatchWindow,
		},
	}
}

// ScalarRoles returns the labelling used for the scalar dataset.
func (c Config) ScalarRoles() scalar.Roles {
	return scalar.Roles{AttackerID: c.Scenario.AttackerID, AttackLabel: c.Scenario.Label}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
