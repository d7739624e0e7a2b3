// Package rank provides generic top-K selection with minimum-sample gating.
// It knows nothing about what a score means; every ranked insight in the
// engine goes through it.
package rank

import "sort"

// Metric is one candidate for ranking. Key is a contact key, a canonical
// person id, or any other opaque identifier (emoji tokens rank through the
// same path).
type Metric struct {
	Key         string  `json:"key"`
	Score       float64 `json:"score"`
	SampleCount int     `json:"sample_count"`
}

// Options configures one ranking pass.
type Options struct {
	// MinSamples gates entries: anything with fewer samples is excluded.
	MinSamples int
	// TopK caps the result length. Non-positive means unlimited.
	TopK int
	// Ascending orders lowest score first (e.g. fastest reply times).
	Ascending bool
}

// Top returns the qualifying metrics in rank order. The ordering is total:
// equal scores break by sample count descending (more evidence first), then
// by key ascending, so identical inputs always produce identical output.
// The result is never nil; an insight with no qualifiers is an explicit
// empty list, not an error.
func Top(metrics []Metric, opts Options) []Metric {
	out := make([]Metric, 0, len(metrics))
	for _, m := range metrics {
		if m.SampleCount >= opts.MinSamples {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			if opts.Ascending {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		if a.SampleCount != b.SampleCount {
			return a.SampleCount > b.SampleCount
		}
		return a.Key < b.Key
	})

	if opts.TopK > 0 && len(out) > opts.TopK {
		out = out[:opts.TopK]
	}
	return out
}
