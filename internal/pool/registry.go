package pool

import "github.com/l1jgo/spawnpool/internal/core/ecs"

// Registry maps templates to their pools. Keys are kept in creation order so
// snapshots iterate deterministically.
type Registry struct {
	factory Factory
	anchors *Anchors
	alive   func(ecs.EntityID) bool
	pools   map[Template]*Lifecycle
	order   []Template
}

// NewRegistry returns an empty registry. alive is handed to every pool it
// creates; nil treats every instance as alive.
func NewRegistry(f Factory, anchors *Anchors, alive func(ecs.EntityID) bool) *Registry {
	return &Registry{
		factory: f,
		anchors: anchors,
		alive:   alive,
		pools:   make(map[Template]*Lifecycle, 16),
		order:   make([]Template, 0, 16),
	}
}

// GetOrCreate returns t's pool, creating it bound to category c on first use.
// A later call with another category gets the existing pool unchanged.
func (r *Registry) GetOrCreate(t Template, c Category, hint Placement) (*Lifecycle, bool) {
	if p, ok := r.pools[t]; ok {
		return p, false
	}
	var anchor ecs.EntityID
	if r.anchors != nil {
		anchor, _ = r.anchors.Resolve(c)
	}
	p := newLifecycle(t, c, hint, anchor, r.factory, r.alive)
	r.pools[t] = p
	r.order = append(r.order, t)
	return p, true
}

func (r *Registry) Lookup(t Template) (*Lifecycle, bool) {
	p, ok := r.pools[t]
	return p, ok
}

// Category returns the category t was registered under.
func (r *Registry) Category(t Template) (Category, bool) {
	p, ok := r.pools[t]
	if !ok {
		return 0, false
	}
	return p.category, true
}

func (r *Registry) Remove(t Template) bool {
	if _, ok := r.pools[t]; !ok {
		return false
	}
	delete(r.pools, t)
	for i, k := range r.order {
		if k == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Templates returns a copy of every registered template. Bulk operations that
// remove pools must iterate this copy, never the live registry.
func (r *Registry) Templates() []Template {
	out := make([]Template, len(r.order))
	copy(out, r.order)
	return out
}

// TemplatesIn returns a copy of the templates registered under c.
func (r *Registry) TemplatesIn(c Category) []Template {
	var out []Template
	for _, t := range r.order {
		if r.pools[t].category == c {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.pools) }
