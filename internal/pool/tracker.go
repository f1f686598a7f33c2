package pool

import "github.com/l1jgo/spawnpool/internal/core/ecs"

// Tracker maps live instances back to the template that produced them.
// Records outlive returns and disappear only on destruction.
type Tracker struct {
	owners map[ecs.EntityID]Template
}

func NewTracker() *Tracker {
	return &Tracker{owners: make(map[ecs.EntityID]Template, 256)}
}

// Track records id as produced by t. It reports false if id was already known.
func (tr *Tracker) Track(id ecs.EntityID, t Template) bool {
	if _, ok := tr.owners[id]; ok {
		return false
	}
	tr.owners[id] = t
	return true
}

func (tr *Tracker) Owner(id ecs.EntityID) (Template, bool) {
	t, ok := tr.owners[id]
	return t, ok
}

func (tr *Tracker) Forget(id ecs.EntityID) {
	delete(tr.owners, id)
}

// ForgetTemplate drops every record produced by t and returns how many.
func (tr *Tracker) ForgetTemplate(t Template) int {
	n := 0
	for id, owner := range tr.owners {
		if owner == t {
			delete(tr.owners, id)
			n++
		}
	}
	return n
}

func (tr *Tracker) Len() int { return len(tr.owners) }
