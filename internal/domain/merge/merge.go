// Package merge combines per-platform contact metrics into canonical person
// identities. Identity resolution itself is supplied by the caller; this
// package only folds sums together.
package merge

import (
	"context"
	"sort"

	"github.com/chatwrapped/engine/internal/domain/aggregate"
	"github.com/chatwrapped/engine/internal/domain/event"
	"github.com/chatwrapped/engine/internal/domain/initiation"
	"github.com/chatwrapped/engine/internal/domain/latency"
)

// Resolver maps a platform-scoped contact to a canonical person id. Returns
// false when no mapping exists; such contacts stay unmerged rather than
// being dropped.
type Resolver interface {
	Resolve(platform event.Platform, contactID string) (string, bool)
}

// MapResolver resolves identities from a static table.
type MapResolver map[event.ContactKey]string

// Resolve implements Resolver.
func (m MapResolver) Resolve(platform event.Platform, contactID string) (string, bool) {
	id, ok := m[event.ContactKey{Platform: platform, ContactID: contactID}]
	return id, ok
}

// ContactMetrics bundles one contact's raw accumulations from all analyzers.
// Everything is a sum or count, never a mean: keeping sums makes the merge
// associative and order-independent, and means are derived only at ranking
// time.
type ContactMetrics struct {
	Reply      latency.Stats
	Initiation initiation.Counts
	Volume     aggregate.Volume
}

func (c *ContactMetrics) add(o ContactMetrics) {
	c.Reply.Add(o.Reply)
	c.Initiation.Add(o.Initiation)
	c.Volume.Add(o.Volume)
}

// PersonMetrics is the merged view of one logical person.
type PersonMetrics struct {
	PersonID  string
	Platforms []event.Platform
	ContactMetrics
}

// Result holds the merged persons plus the unresolved-identity count
// surfaced to the caller.
type Result struct {
	Persons    map[string]PersonMetrics
	Unresolved int
}

// Merger folds per-platform metrics into persons.
type Merger struct {
	resolver Resolver
}

// Option applies a configuration option to the Merger.
type Option func(*Merger)

// WithResolver sets the identity resolver. Without one every contact passes
// through unmerged.
func WithResolver(r Resolver) Option {
	return func(m *Merger) {
		m.resolver = r
	}
}

// New creates a Merger with configuration options.
func New(opts ...Option) *Merger {
	m := &Merger{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge combines per-contact metrics into per-person metrics. Counts sum;
// latency means recombine as sample-count-weighted averages via the kept
// sums; initiation percentages recompute from summed starts. Contacts with
// no canonical mapping keep their platform-qualified key as person id and
// are counted as unresolved when more than one platform is present.
func (m *Merger) Merge(ctx context.Context, contacts map[event.ContactKey]ContactMetrics) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	platforms := make(map[event.Platform]struct{})
	for key := range contacts {
		platforms[key.Platform] = struct{}{}
	}
	multiPlatform := len(platforms) > 1

	res := &Result{Persons: make(map[string]PersonMetrics, len(contacts))}
	for key, cm := range contacts {
		personID, resolved := "", false
		if m.resolver != nil {
			personID, resolved = m.resolver.Resolve(key.Platform, key.ContactID)
		}
		if !resolved || personID == "" {
			personID = key.String()
			if multiPlatform {
				res.Unresolved++
			}
		}

		p, ok := res.Persons[personID]
		if !ok {
			p = PersonMetrics{PersonID: personID}
		}
		p.add(cm)
		p.Platforms = appendPlatform(p.Platforms, key.Platform)
		res.Persons[personID] = p
	}
	return res, nil
}

// appendPlatform keeps the platform list sorted and deduplicated so merged
// output is independent of input order.
func appendPlatform(list []event.Platform, p event.Platform) []event.Platform {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	list = append(list, p)
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
