package testevents

import "github.com/chatwrapped/engine/internal/domain/event"

// Default generation parameters.
const (
	defaultNumContacts = 40
	defaultDays        = 180
	defaultSeed        = 1
	defaultStartDay    = "2025-01-01"
)

// Config controls synthetic timeline generation.
type Config struct {
	NumContacts int
	Days        int
	Seed        int64
	StartDay    string
	Platforms   []event.Platform
}

// Option applies a configuration option to the Config.
type Option func(*Config)

// WithNumContacts sets how many contacts to generate.
func WithNumContacts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.NumContacts = n
		}
	}
}

// WithDays sets the length of the generated window in days.
func WithDays(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Days = n
		}
	}
}

// WithSeed sets the random seed. The same seed always yields byte-identical
// output.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithStartDay sets the first day of the generated window.
func WithStartDay(day string) Option {
	return func(c *Config) {
		if day != "" {
			c.StartDay = day
		}
	}
}

// WithPlatforms sets the platform pool contacts are assigned from.
func WithPlatforms(platforms []event.Platform) Option {
	return func(c *Config) {
		if len(platforms) > 0 {
			c.Platforms = platforms
		}
	}
}

// NewConfig returns a Config with defaults applied.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		NumContacts: defaultNumContacts,
		Days:        defaultDays,
		Seed:        defaultSeed,
		StartDay:    defaultStartDay,
		Platforms:   []event.Platform{"imessage", "whatsapp", "instagram"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
