package driver

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Default tuning values.
const (
	DefaultFrameRate       = 60
	DefaultTeardownTimeout = 5 * time.Second
)

// Config tunes the render loop. Zero fields keep their defaults.
//
// A config file looks like:
//
//	frame_rate = 30
//	teardown_timeout = "2s"
//	continuous = true
//	swap_interval = 1
//	variant = "glx"
type Config struct {
	// FrameRate is the target number of frames per second.
	FrameRate int `toml:"frame_rate"`

	// TeardownTimeout bounds how long Detach waits for the render thread
	// to finish its frame.
	TeardownTimeout time.Duration `toml:"teardown_timeout"`

	// Continuous renders a frame every frame interval. Otherwise frames
	// are rendered only after Repaint, TriggerRepaint or
	// ReleaseCachedResources.
	Continuous bool `toml:"continuous"`

	// SwapInterval is set on the native context when rendering starts.
	// Zero leaves the context's own interval.
	SwapInterval int `toml:"swap_interval"`

	// Variant names the native context variant. Empty picks the best one.
	Variant string `toml:"variant"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		FrameRate:       DefaultFrameRate,
		TeardownTimeout: DefaultTeardownTimeout,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FrameRate == 0 {
		c.FrameRate = d.FrameRate
	}
	if c.TeardownTimeout == 0 {
		c.TeardownTimeout = d.TeardownTimeout
	}
	return c
}

// Validate reports values that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.FrameRate < 0:
		return fmt.Errorf("%w: frame_rate %d", ErrInvalidConfig, c.FrameRate)
	case c.TeardownTimeout < 0:
		return fmt.Errorf("%w: teardown_timeout %v", ErrInvalidConfig, c.TeardownTimeout)
	case c.SwapInterval < 0:
		return fmt.Errorf("%w: swap_interval %d", ErrInvalidConfig, c.SwapInterval)
	}
	return nil
}

// FrameInterval returns the time budget of one frame.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.withDefaults().FrameRate)
}

// DecodeConfig reads a TOML configuration. Keys it does not know are an
// error.
func DecodeConfig(r io.Reader) (Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, fmt.Errorf("driver: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c.withDefaults(), nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("driver: load config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}
