package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/vectrace/internal/engine/correlator"
)

var allKeys = []string{
	"VECTRACE_SCENARIO", "VECTRACE_APP_SLOT",
	"VECTRACE_STREAM_PRIMARY", "VECTRACE_STREAM_SIZE", "VECTRACE_STREAM_IAT",
	"VECTRACE_MATCH_WINDOW", "VECTRACE_ATTACKER_ID", "VECTRACE_LABEL",
	"VECTRACE_PACKET_TYPE", "VECTRACE_OUTPUT", "VECTRACE_OUTPUT_PATH",
	"VECTRACE_OUTPUT_PRETTY", "VECTRACE_OUTPUT_COMPRESS",
	"VECTRACE_LOG_LEVEL", "VECTRACE_METRICS_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Scenario.Name != "DoSScenario" {
		t.Fatalf("expected default scenario 'DoSScenario', got %q", cfg.Scenario.Name)
	}
	if cfg.Scenario.AppSlot != "app[0]" {
		t.Fatalf("expected default app slot 'app[0]', got %q", cfg.Scenario.AppSlot)
	}
	if cfg.Engine.MatchWindow != correlator.DefaultWindow {
		t.Fatalf("expected default window %v, got %v", correlator.DefaultWindow, cfg.Engine.MatchWindow)
	}
	if cfg.Streams.Primary != "packetReceived" || cfg.Streams.Size != "packetSize" || cfg.Streams.InterArrival != "interArrivalTime" {
		t.Fatalf("unexpected default streams: %+v", cfg.Streams)
	}
	if cfg.Output.Format != "xlsx" {
		t.Fatalf("expected default output 'xlsx', got %q", cfg.Output.Format)
	}
	if cfg.Output.Pretty || cfg.Output.Compress {
		t.Fatal("expected Pretty and Compress off by default")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VECTRACE_SCENARIO", "FloodScenario")
	t.Setenv("VECTRACE_MATCH_WINDOW", "0.05")
	t.Setenv("VECTRACE_ATTACKER_ID", "3")
	t.Setenv("VECTRACE_OUTPUT", "csv,ndjson")
	t.Setenv("VECTRACE_OUTPUT_PRETTY", "true")
	t.Setenv("VECTRACE_OUTPUT_COMPRESS", "1")

	cfg := Load()

	if cfg.Scenario.Name != "FloodScenario" {
		t.Fatalf("expected scenario override, got %q", cfg.Scenario.Name)
	}
	if cfg.Engine.MatchWindow != 0.05 {
		t.Fatalf("expected window 0.05, got %v", cfg.Engine.MatchWindow)
	}
	if cfg.Scenario.AttackerID != 3 {
		t.Fatalf("expected attacker 3, got %d", cfg.Scenario.AttackerID)
	}
	if !cfg.Output.Pretty || !cfg.Output.Compress {
		t.Fatal("expected Pretty and Compress on")
	}
	got := cfg.Output.FormatList()
	if len(got) != 2 || got[0] != "csv" || got[1] != "ndjson" {
		t.Fatalf("unexpected format list %v", got)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("VECTRACE_MATCH_WINDOW", "soon")
	t.Setenv("VECTRACE_ATTACKER_ID", "zero")
	t.Setenv("VECTRACE_OUTPUT_PRETTY", "maybe")

	cfg := Load()

	if cfg.Engine.MatchWindow != correlator.DefaultWindow {
		t.Fatalf("expected fallback window, got %v", cfg.Engine.MatchWindow)
	}
	if cfg.Scenario.AttackerID != 0 {
		t.Fatalf("expected fallback attacker 0, got %d", cfg.Scenario.AttackerID)
	}
	if cfg.Output.Pretty {
		t.Fatal("expected fallback Pretty=false")
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "vectrace.yaml")
	data := `
scenario:
  name: BlackholeScenario
engine:
  match_window: 0.02
output:
  format: csv
  path: out/records.csv
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path, Load())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Scenario.Name != "BlackholeScenario" {
		t.Fatalf("expected overlaid scenario, got %q", cfg.Scenario.Name)
	}
	if cfg.Scenario.AppSlot != "app[0]" {
		t.Fatalf("expected base app slot kept, got %q", cfg.Scenario.AppSlot)
	}
	if cfg.Engine.MatchWindow != 0.02 {
		t.Fatalf("expected window 0.02, got %v", cfg.Engine.MatchWindow)
	}
	if cfg.Output.Path != "out/records.csv" {
		t.Fatalf("expected overlaid path, got %q", cfg.Output.Path)
	}
	if cfg.Streams.Primary != "packetReceived" {
		t.Fatalf("expected base primary stream kept, got %q", cfg.Streams.Primary)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	base := Load()
	cfg, err := LoadFile(path, base)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg != base {
		t.Fatalf("expected base unchanged, got %+v", cfg)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  window: 0.02\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path, Load()); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := LoadFile(path, Load())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero window", func(c *Config) { c.Engine.MatchWindow = 0 }, "match window"},
		{"negative window", func(c *Config) { c.Engine.MatchWindow = -1 }, "match window"},
		{"empty primary", func(c *Config) { c.Streams.Primary = " " }, "stream primary"},
		{"empty size", func(c *Config) { c.Streams.Size = "" }, "stream size"},
		{"unknown format", func(c *Config) { c.Output.Format = "csv,parquet" }, `"parquet"`},
		{"no format", func(c *Config) { c.Output.Format = " , " }, "no output format"},
		{"no scenario", func(c *Config) { c.Scenario.Name = "" }, "scenario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestToEngine(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.Scenario.AttackerID = 7
	cfg.Scenario.Label = "FLOOD"
	cfg.Engine.MatchWindow = 0.03

	ec := cfg.ToEngine()

	if ec.Correlation.Window != 0.03 {
		t.Fatalf("expected window 0.03, got %v", ec.Correlation.Window)
	}
	if ec.Correlation.Roles.SenderID != 7 || ec.Correlation.Roles.Label != "FLOOD" {
		t.Fatalf("unexpected roles %+v", ec.Correlation.Roles)
	}
	if n, ok := ec.Pattern.Node("DoSScenario.node[4].app[0]"); !ok || n != 4 {
		t.Fatalf("expected pattern to resolve node 4, got %d %v", n, ok)
	}

	roles := cfg.ScalarRoles()
	if roles.AttackerID != 7 || roles.AttackLabel != "FLOOD" {
		t.Fatalf("unexpected scalar roles %+v", roles)
	}
}

func TestDefaultPath(t *testing.T) {
	tests := map[string]string{
		"xlsx":   "v2v_communications.xlsx",
		"csv":    "v2v_communications.csv",
		"ndjson": "v2v_communications.ndjson",
		"stdout": "",
	}
	for format, want := range tests {
		if got := DefaultPath(format); got != want {
			t.Errorf("DefaultPath(%q) = %q, want %q", format, got, want)
		}
	}
}
