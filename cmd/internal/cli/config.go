// Package cli holds the flag, config-file and environment handling shared
// by the nucleus executables.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nucleus-scroll/nucleus"
)

// EnvPrefix namespaces environment overrides, e.g. NUCLEUS_PARTICLES.
const EnvPrefix = "NUCLEUS"

// Settings is the merged result of defaults, config file, environment and
// flags, in increasing priority.
type Settings struct {
	Particles       int           `mapstructure:"particles"`
	Orbits          int           `mapstructure:"orbits"`
	Lines           int           `mapstructure:"lines"`
	Seed            int64         `mapstructure:"seed"`
	Pages           float64       `mapstructure:"pages"`
	Smooth          time.Duration `mapstructure:"smooth"`
	WheelMultiplier float64       `mapstructure:"wheel-multiplier"`
	Scrub           float64       `mapstructure:"scrub"`
	MaxPixelRatio   float64       `mapstructure:"max-pixel-ratio"`
	FPS             int           `mapstructure:"fps"` // only registered by the terminal executable
	LogLevel        string        `mapstructure:"log-level"`
}

// BindFlags registers the shared flags on cmd and wires them, the
// --config file and NUCLEUS_* variables into v.
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	def := nucleus.DefaultConfig()
	f := cmd.Flags()
	f.String("config", "", "config file (yaml, toml or json)")
	f.Int("particles", def.ParticleCount, "number of background particles")
	f.Int("orbits", def.OrbitNodeCount, "number of orbiting nodes")
	f.Int("lines", def.LineCount, "number of connection lines")
	f.Int64("seed", 0, "scene seed, 0 for time-based")
	f.Float64("pages", def.ScrollPages, "scroll length in viewport heights")
	f.Duration("smooth", def.SmoothDuration, "wheel smoothing duration")
	f.Float64("wheel-multiplier", def.WheelMultiplier, "wheel delta multiplier")
	f.Float64("scrub", def.ScrubFrequency, "phase scrub spring frequency")
	f.Float64("max-pixel-ratio", float64(def.MaxPixelRatio), "device pixel ratio cap")
	f.String("log-level", "info", "log level: debug, info, warn or error")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(f); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// Load reads the optional config file and unmarshals every layer.
func Load(v *viper.Viper) (Settings, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Config converts the settings into a view config.
func (s Settings) Config(logger *slog.Logger) nucleus.Config {
	return nucleus.Config{
		ParticleCount:   s.Particles,
		OrbitNodeCount:  s.Orbits,
		LineCount:       s.Lines,
		Seed:            s.Seed,
		ScrollPages:     s.Pages,
		SmoothDuration:  s.Smooth,
		WheelMultiplier: s.WheelMultiplier,
		ScrubFrequency:  s.Scrub,
		MaxPixelRatio:   float32(s.MaxPixelRatio),
		Logger:          logger,
	}
}

// NewLogger returns a text logger on w at the named level.
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
