package app

import (
	"github.com/chatwrapped/engine/internal/config"
	"github.com/chatwrapped/engine/internal/domain/merge"
	"github.com/chatwrapped/engine/internal/domain/timeline"
	"github.com/chatwrapped/engine/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithResolver sets the cross-platform identity resolver. Without one every
// contact stays platform-scoped.
func WithResolver(r merge.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithExcludeFunc replaces the contact exclusion predicate used during
// normalization.
func WithExcludeFunc(fn timeline.ExcludeFunc) Option {
	return func(e *Engine) {
		e.exclude = fn
	}
}
