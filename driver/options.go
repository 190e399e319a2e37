package driver

import (
	"time"

	"github.com/gogpu/glcanvas/native"
)

// Option configures a Driver during creation.
type Option func(*options)

type options struct {
	config Config
	create func(native.Config) (native.Context, error)
	clock  Clock
}

func defaultOptions() options {
	return options{
		config: DefaultConfig(),
		create: native.Create,
		clock:  systemClock{},
	}
}

// WithConfig sets the render loop configuration. Zero fields keep their
// defaults.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c.withDefaults()
	}
}

// WithNativeFactory replaces native.Create as the way Attach creates its
// native context.
func WithNativeFactory(create func(native.Config) (native.Context, error)) Option {
	return func(o *options) {
		if create != nil {
			o.create = create
		}
	}
}

// WithClock sets the clock used for frame pacing and the teardown
// timeout.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// Clock is the time source of the render loop.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
