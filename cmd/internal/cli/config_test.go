package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func load(t *testing.T, args ...string) Settings {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	if err := BindFlags(cmd, v); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestDefaultsMatchViewConfig(t *testing.T) {
	s := load(t)
	cfg := s.Config(nil)
	if cfg.ParticleCount != 4000 || cfg.OrbitNodeCount != 20 || cfg.LineCount != 60 {
		t.Errorf("counts = %d/%d/%d, want 4000/20/60", cfg.ParticleCount, cfg.OrbitNodeCount, cfg.LineCount)
	}
	if cfg.SmoothDuration != 1400*time.Millisecond {
		t.Errorf("SmoothDuration = %v, want 1.4s", cfg.SmoothDuration)
	}
	if cfg.ScrollPages != 10 || cfg.MaxPixelRatio != 2 || cfg.ScrubFrequency != 6 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSharedFlagsLeaveFrameRateToTerminal(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	if err := BindFlags(cmd, viper.New()); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if cmd.Flags().Lookup("fps") != nil {
		t.Error("shared flags register --fps")
	}
}

func TestLayerPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nucleus.yaml")
	body := "particles: 1000\nlines: 10\nsmooth: 2s\nlog-level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUCLEUS_LINES", "12")
	t.Setenv("NUCLEUS_WHEEL_MULTIPLIER", "0.5")

	s := load(t, "--config", path, "--lines", "30")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file", s.Particles, 1000},
		{"file duration", s.Smooth, 2 * time.Second},
		{"file string", s.LogLevel, "debug"},
		{"flag over env and file", s.Lines, 30},
		{"env", s.WheelMultiplier, 0.5},
		{"default", s.Orbits, 20},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMissingConfigFile(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	if err := BindFlags(cmd, v); err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(v); err == nil {
		t.Error("Load succeeded with a missing config file")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}

	if _, err := NewLogger("loud", &buf); err == nil {
		t.Error("NewLogger accepted an unknown level")
	}
}
