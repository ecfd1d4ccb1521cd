package selector

import (
	"reflect"
)

// Embedder rewrites selectors declared by an embedded rule set into the
// coordinates of the rule set that embeds it at host.
//
// A rewritten selector keeps its shape and is scoped by the host's scopes,
// then by the host itself, then by its own scopes. A Root selector becomes a
// Type selector for the embedded root type first. Value/pointer groups stay
// linked across the rewrite.
type Embedder struct {
	host   *Selector
	root   reflect.Type
	groups map[*group]*group
}

// NewEmbedder returns an Embedder for a rule set with root type root
// embedded at host.
func NewEmbedder(host *Selector, root reflect.Type) *Embedder {
	return &Embedder{host: host, root: root, groups: make(map[*group]*group)}
}

// Host returns the selector the embedded rule set is attached to.
func (e *Embedder) Host() *Selector { return e.host }

// Rewrite returns the host-relative copy of s.
func (e *Embedder) Rewrite(s *Selector) *Selector {
	c := s.clone()

	if s.root {
		c.root = false
		c.kind = KindType
		c.typ = e.root
	}

	c.scopes = make([]Scope, 0, len(e.host.scopes)+1+len(s.scopes))
	c.scopes = append(c.scopes, e.host.scopes...)
	c.scopes = append(c.scopes, e.host.ToScope())
	c.scopes = append(c.scopes, s.scopes...)

	if s.group != nil {
		g, ok := e.groups[s.group]
		if !ok {
			g = &group{}
			e.groups[s.group] = g
		}

		g.members = append(g.members, c)
		c.group = g
	}

	return c
}
