package middleware

import (
	"io"
	"strings"
)

// registry holds globally-registered middleware plugins.
var registry []Middleware

// Register should be called by middleware packages (typically in init) to
// register themselves with the chain builder.
func Register(m Middleware) {
	registry = append(registry, m)
}

// Registered returns a shallow copy of all registered middleware.
func Registered() []Middleware {
	out := make([]Middleware, len(registry))
	copy(out, registry)
	return out
}

// NewChainFromRegistry builds a chain from all registered middleware except
// the disabled ids. It returns nil when nothing is left.
func NewChainFromRegistry(debugWriter io.Writer, disabled ...string) *Chain {
	off := make(map[string]struct{}, len(disabled))
	for _, id := range disabled {
		if id = strings.TrimSpace(id); id != "" {
			off[id] = struct{}{}
		}
	}

	var mws []Middleware
	for _, mw := range Registered() {
		if _, skip := off[mw.ID()]; !skip {
			mws = append(mws, mw)
		}
	}
	if len(mws) == 0 {
		return nil
	}

	c := NewChain(mws...)
	if debugWriter != nil {
		c.SetDebugWriter(debugWriter)
	}
	return c
}
