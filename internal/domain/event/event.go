// Package event contains the domain models passed between layers.
package event

import (
	"fmt"
	"time"
)

// Direction tells who sent a message relative to the account owner.
type Direction string

// Message directions.
const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Arity distinguishes one-to-one chats from group chats. Only one-to-one
// events feed per-person metrics.
type Arity string

// Chat arities.
const (
	ArityOneToOne Arity = "one_to_one"
	ArityGroup    Arity = "group"
)

// Platform identifies the messaging source, e.g. "imessage" or "whatsapp".
// Contact identifiers are only stable within one platform.
type Platform string

// dayKeyLayout is the calendar day key format. Day keys are bucketed by the
// caller's local calendar; the engine never touches timezone policy.
const dayKeyLayout = "2006-01-02"

// MessageEvent is a single normalized message record supplied by the
// extraction layer. Eligibility (media/short/link/duplicate filtering) is
// computed upstream and trusted here.
type MessageEvent struct {
	ContactID   string    `json:"contact_id"`
	Timestamp   int64     `json:"timestamp"` // epoch seconds
	Direction   Direction `json:"direction"`
	Platform    Platform  `json:"platform"`
	Arity       Arity     `json:"arity"`
	Eligible    bool      `json:"eligible"`
	Day         string    `json:"day"`  // caller-bucketed YYYY-MM-DD key
	Hour        int       `json:"hour"` // caller-bucketed hour of day, 0..23
	EmojiTokens []string  `json:"emoji_tokens,omitempty"`
}

// ContactKey identifies a contact within a single platform. Cross-platform
// merging of the same person happens at the metric level, never here.
type ContactKey struct {
	Platform  Platform `json:"platform"`
	ContactID string   `json:"contact_id"`
}

// String renders the key in "platform:contact" form, used as the ranking key
// and as the fallback person id for unresolved identities.
func (k ContactKey) String() string {
	return string(k.Platform) + ":" + k.ContactID
}

// Key returns the event's contact key.
func (e MessageEvent) Key() ContactKey {
	return ContactKey{Platform: e.Platform, ContactID: e.ContactID}
}

// Validate reports whether the event is structurally usable. Invalid events
// are dropped and counted by the normalizer, never fatal to a run.
func (e MessageEvent) Validate(windowStart int64) error {
	if e.ContactID == "" {
		return fmt.Errorf("%w: empty contact id", ErrInvalidEvent)
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("%w: non-positive timestamp %d", ErrInvalidEvent, e.Timestamp)
	}
	if e.Timestamp < windowStart {
		return fmt.Errorf("%w: timestamp %d before window start %d", ErrInvalidEvent, e.Timestamp, windowStart)
	}
	if e.Direction != DirectionOutbound && e.Direction != DirectionInbound {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidEvent, e.Direction)
	}
	if e.Day != "" {
		if _, err := time.Parse(dayKeyLayout, e.Day); err != nil {
			return fmt.Errorf("%w: malformed day key %q", ErrInvalidEvent, e.Day)
		}
	}
	if e.Hour < 0 || e.Hour > 23 {
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidEvent, e.Hour)
	}
	return nil
}

// ParseDay converts a day key back to a calendar date. Day keys sort
// lexicographically in chronological order, so most consumers compare the
// raw strings and only parse for calendar arithmetic.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(dayKeyLayout, day)
}

// FormatDay renders a calendar date as a day key.
func FormatDay(t time.Time) string {
	return t.Format(dayKeyLayout)
}
