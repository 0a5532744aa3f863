// Package notify holds the editor's single "current notification" slot.
//
// A notification lives until its TTL elapses or a newer one replaces it.
// Success and error share the slot; showing one always drops the other.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Kind classifies a notification.
type Kind string

// Notification kinds
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one transient message for the user.
type Notification struct {
	Kind      Kind      `json:"kind" msgpack:"kind"`
	Text      string    `json:"text" msgpack:"text"`
	IssuedAt  time.Time `json:"issuedAt" msgpack:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt" msgpack:"expiresAt"`
}

// Timer is the part of *time.Timer the surface uses.
type Timer interface {
	Stop() bool
}

// Clock provides time to the surface.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Sink receives every notification the surface shows.
type Sink interface {
	Deliver(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(n Notification)

// Deliver calls f(n).
func (f SinkFunc) Deliver(n Notification) { f(n) }

// Surface holds the current notification and dismisses it after the TTL.
type Surface struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	sinks   []Sink
	current *Notification
	timer   Timer
	// gen invalidates timers armed for notifications that were since
	// replaced or cleared.
	gen uint64
}

// Option configures a Surface.
type Option func(*Surface)

// WithTTL sets the display duration. A non-positive TTL keeps notifications
// until they are replaced or cleared.
func WithTTL(ttl time.Duration) Option {
	return func(s *Surface) { s.ttl = ttl }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Surface) { s.clock = c }
}

// WithSinks forwards every shown notification to sinks.
func WithSinks(sinks ...Sink) Option {
	return func(s *Surface) { s.sinks = append(s.sinks, sinks...) }
}

// NewSurface creates an empty surface.
func NewSurface(opts ...Option) *Surface {
	s := &Surface{ttl: DefaultTTL, clock: systemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show replaces the current notification and restarts the dismissal timer.
func (s *Surface) Show(kind Kind, text string) Notification {
	s.mu.Lock()
	s.stopLocked()
	gen := s.gen
	now := s.clock.Now()
	n := Notification{Kind: kind, Text: text, IssuedAt: now}
	if s.ttl > 0 {
		n.ExpiresAt = now.Add(s.ttl)
		s.timer = s.clock.AfterFunc(s.ttl, func() { s.expire(gen) })
	}
	s.current = &n
	sinks := s.sinks
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Deliver(n)
	}
	return n
}

// Success shows a success notification.
func (s *Surface) Success(text string) Notification { return s.Show(KindSuccess, text) }

// Error shows an error notification.
func (s *Surface) Error(text string) Notification { return s.Show(KindError, text) }

// Current returns the live notification, if any.
func (s *Surface) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notification{}, false
	}
	if !s.current.ExpiresAt.IsZero() && !s.clock.Now().Before(s.current.ExpiresAt) {
		s.stopLocked()
		return Notification{}, false
	}
	return *s.current, true
}

// Clear drops the current notification and cancels its timer.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Surface) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = nil
	s.gen++
}

func (s *Surface) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.current = nil
	s.timer = nil
	s.gen++
}
