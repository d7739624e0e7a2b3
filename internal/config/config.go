// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) for layered loading.
// - Threshold misconfiguration is fatal at startup, before any computation.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains every threshold the engine recognizes.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MinLatencySeconds and MaxLatencySeconds bound the inclusive window in
	// which an adjacent direction-flip pair counts as a response.
	MinLatencySeconds int64 `koanf:"min_latency_seconds"`
	MaxLatencySeconds int64 `koanf:"max_latency_seconds"`

	// InitiationGapSeconds is the silence after which the next message
	// starts a new conversation.
	InitiationGapSeconds int64 `koanf:"initiation_gap_seconds"`

	// MinReplySamples gates reply-time ranking per direction.
	MinReplySamples int `koanf:"min_reply_samples"`

	// MinConversations gates initiation ranking.
	MinConversations int `koanf:"min_conversations"`

	// TopK caps most ranked insight lists; TopContacts caps the volume list.
	TopK        int `koanf:"top_k"`
	TopContacts int `koanf:"top_contacts"`

	// ReachOutThreshold and FindYouThreshold bucket initiation scores:
	// above the first you always reach out, below the second they always
	// find you.
	ReachOutThreshold float64 `koanf:"reach_out_threshold"`
	FindYouThreshold  float64 `koanf:"find_you_threshold"`

	// HalfYearCutoff (YYYY-MM-DD) splits the window for trend detection.
	HalfYearCutoff string `koanf:"half_year_cutoff"`

	// Heating thresholds: a contact is heating up when its first-half count
	// exceeds HeatingMinFirstHalf and its second half exceeds the first by
	// HeatingRatio.
	HeatingRatio        float64 `koanf:"heating_ratio"`
	HeatingMinFirstHalf int     `koanf:"heating_min_first_half"`

	// Ghost thresholds: inbound count before the cutoff must exceed
	// GhostMinBefore while the count after stays under GhostMaxAfter.
	GhostMinBefore int `koanf:"ghost_min_before"`
	GhostMaxAfter  int `koanf:"ghost_max_after"`

	// Fan thresholds: received must exceed sent by FanRatio with at least
	// FanMinTotal messages overall. The pursued insight flips directions.
	FanRatio    float64 `koanf:"fan_ratio"`
	FanMinTotal int     `koanf:"fan_min_total"`

	// Late-night insight: events before LateNightHourEnd count, contacts
	// need more than LateNightMin of them to qualify.
	LateNightHourEnd int `koanf:"late_night_hour_end"`
	LateNightMin     int `koanf:"late_night_min"`

	// WindowStart (epoch seconds) rejects events before the reporting
	// window. Zero disables the check.
	WindowStart int64 `koanf:"window_start"`

	// Parallelism bounds the analyzer fan-out.
	Parallelism int `koanf:"parallelism"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		MinLatencySeconds:    10,
		MaxLatencySeconds:    86400,
		InitiationGapSeconds: 14400,
		MinReplySamples:      10,
		MinConversations:     5,
		TopK:                 5,
		TopContacts:          10,
		ReachOutThreshold:    0.70,
		FindYouThreshold:     0.30,
		HalfYearCutoff:       "2025-07-01",
		HeatingRatio:         1.5,
		HeatingMinFirstHalf:  20,
		GhostMinBefore:       10,
		GhostMaxAfter:        3,
		FanRatio:             2.0,
		FanMinTotal:          100,
		LateNightHourEnd:     5,
		LateNightMin:         5,
		WindowStart:          0,
		Parallelism:          runtime.NumCPU(),
	}
}

// Validate fails fast on inconsistent thresholds so a bad run never silently
// produces an empty report.
func (c *Config) Validate() error {
	if c.MinLatencySeconds < 0 {
		return fmt.Errorf("%w: min_latency_seconds must not be negative", ErrInvalidConfig)
	}
	if c.MinLatencySeconds >= c.MaxLatencySeconds {
		return fmt.Errorf("%w: min_latency_seconds %d must be below max_latency_seconds %d",
			ErrInvalidConfig, c.MinLatencySeconds, c.MaxLatencySeconds)
	}
	if c.InitiationGapSeconds <= 0 {
		return fmt.Errorf("%w: initiation_gap_seconds must be positive", ErrInvalidConfig)
	}
	if c.MinReplySamples < 1 || c.MinConversations < 1 {
		return fmt.Errorf("%w: minimum sample thresholds must be at least 1", ErrInvalidConfig)
	}
	if c.TopK <= 0 || c.TopContacts <= 0 {
		return fmt.Errorf("%w: top_k and top_contacts must be positive", ErrInvalidConfig)
	}
	if c.ReachOutThreshold <= 0 || c.ReachOutThreshold >= 1 {
		return fmt.Errorf("%w: reach_out_threshold must be in (0, 1)", ErrInvalidConfig)
	}
	if c.FindYouThreshold <= 0 || c.FindYouThreshold >= 1 {
		return fmt.Errorf("%w: find_you_threshold must be in (0, 1)", ErrInvalidConfig)
	}
	if c.FindYouThreshold >= c.ReachOutThreshold {
		return fmt.Errorf("%w: find_you_threshold must be below reach_out_threshold", ErrInvalidConfig)
	}
	if _, err := time.Parse("2006-01-02", c.HalfYearCutoff); err != nil {
		return fmt.Errorf("%w: half_year_cutoff %q is not a YYYY-MM-DD day key", ErrInvalidConfig, c.HalfYearCutoff)
	}
	if c.HeatingRatio <= 1 {
		return fmt.Errorf("%w: heating_ratio must exceed 1", ErrInvalidConfig)
	}
	if c.FanRatio <= 1 {
		return fmt.Errorf("%w: fan_ratio must exceed 1", ErrInvalidConfig)
	}
	if c.LateNightHourEnd < 1 || c.LateNightHourEnd > 24 {
		return fmt.Errorf("%w: late_night_hour_end must be in 1..24", ErrInvalidConfig)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidConfig)
	}
	return nil
}
