// Package gate decides whether a socket may accept one more connection.
//
// A limit of Unlimited (-1) accepts any number of edges. Any other limit L
// accepts while fewer than L edges are attached. A limit of 0, or a negative
// value other than -1, therefore never accepts a connection; such limits are
// not rejected when configured.
package gate

import "strconv"

// Unlimited marks a socket that accepts any number of connections.
const Unlimited = -1

// Allow reports whether a socket that already has existing connections may
// take one more under the given limit.
func Allow(existing, limit int) bool {
	return limit == Unlimited || existing < limit
}

// Gate carries the configured limit of one socket.
type Gate struct {
	Limit int `json:"limit" yaml:"limit"`
}

// Exactly returns a gate admitting at most n connections.
func Exactly(n int) Gate { return Gate{Limit: n} }

// Open returns a gate without a limit.
func Open() Gate { return Gate{Limit: Unlimited} }

// Allow reports whether one more connection may attach.
func (g Gate) Allow(existing int) bool {
	return Allow(existing, g.Limit)
}

// Unlimited reports whether the gate has no limit.
func (g Gate) Unlimited() bool {
	return g.Limit == Unlimited
}

func (g Gate) String() string {
	if g.Unlimited() {
		return "unlimited"
	}
	return strconv.Itoa(g.Limit)
}
