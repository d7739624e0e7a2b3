package timeline

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithWindowStart sets the reporting window start. Events timestamped before
// it are treated as invalid and counted as skipped.
func WithWindowStart(ts int64) Option {
	return func(n *Normalizer) {
		if ts > 0 {
			n.windowStart = ts
		}
	}
}

// WithExcludeFunc replaces the contact exclusion predicate. A nil predicate
// disables exclusion entirely.
func WithExcludeFunc(fn ExcludeFunc) Option {
	return func(n *Normalizer) {
		n.exclude = fn
	}
}
