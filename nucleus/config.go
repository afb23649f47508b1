package nucleus

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds everything a View needs besides the host.
type Config struct {
	ParticleCount  int
	OrbitNodeCount int
	LineCount      int

	// Seed for scene generation. Zero picks a time-based seed.
	Seed int64

	ScrollPages     float64       // spacer height in viewport heights
	SmoothDuration  time.Duration // wheel tween duration
	WheelMultiplier float64
	ScrubFrequency  float64 // spring angular frequency for the phase scrub

	MaxPixelRatio float32

	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		ParticleCount:   4000,
		OrbitNodeCount:  20,
		LineCount:       60,
		ScrollPages:     10,
		SmoothDuration:  1400 * time.Millisecond,
		WheelMultiplier: 1,
		ScrubFrequency:  6,
		MaxPixelRatio:   2,
	}
}

// Validate rejects configs that cannot build a scene.
func (c Config) Validate() error {
	switch {
	case c.ParticleCount < 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.ParticleCount)
	case c.OrbitNodeCount < 0:
		return fmt.Errorf("%w: orbit node count %d", ErrInvalidConfig, c.OrbitNodeCount)
	case c.LineCount < 0:
		return fmt.Errorf("%w: line count %d", ErrInvalidConfig, c.LineCount)
	case c.ScrollPages != 0 && c.ScrollPages <= 1:
		return fmt.Errorf("%w: scroll pages %v must exceed 1", ErrInvalidConfig, c.ScrollPages)
	case c.MaxPixelRatio < 0:
		return fmt.Errorf("%w: max pixel ratio %v", ErrInvalidConfig, c.MaxPixelRatio)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c Config) seed() int64 {
	if c.Seed == 0 {
		return time.Now().UnixNano()
	}
	return c.Seed
}

// capPixelRatio clamps the device pixel ratio to (0, max].
func (c Config) capPixelRatio(ratio float32) float32 {
	limit := c.MaxPixelRatio
	if limit <= 0 {
		limit = 2
	}
	if ratio <= 0 {
		return 1
	}
	if ratio > limit {
		return limit
	}
	return ratio
}
