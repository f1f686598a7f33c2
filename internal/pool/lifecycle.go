package pool

import (
	"fmt"
	"slices"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

// Counts is a pool's size breakdown. Total is always Active + Inactive.
type Counts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Outcome is the result of releasing an instance.
type Outcome uint8

const (
	// Ignored: the instance was not active in this pool.
	Ignored Outcome = iota
	// Pooled: the instance is now inactive and available for reuse.
	Pooled
	// Evicted: the idle cap was reached, so the instance was destroyed.
	Evicted
)

// Lifecycle is the reuse pool for a single template.
type Lifecycle struct {
	template Template
	category Category
	hint     Placement
	anchor   ecs.EntityID
	factory  Factory
	alive    func(ecs.EntityID) bool
	maxIdle  int

	// active[id] is true while handed out, false while parked on free.
	active map[ecs.EntityID]bool
	free   []ecs.EntityID
	// lost holds parked instances found dead on acquire, until TakeLost.
	lost []ecs.EntityID

	created   uint64
	reused    uint64
	returned  uint64
	destroyed uint64
}

// newLifecycle builds an empty pool. alive reports whether the host still
// holds an entity; nil treats every instance as alive.
func newLifecycle(t Template, c Category, hint Placement, anchor ecs.EntityID, f Factory, alive func(ecs.EntityID) bool) *Lifecycle {
	l := &Lifecycle{
		template: t,
		category: c,
		hint:     hint,
		anchor:   anchor,
		factory:  f,
		alive:    alive,
		active:   make(map[ecs.EntityID]bool, 16),
		free:     make([]ecs.EntityID, 0, 16),
	}
	if capper, ok := t.(IdleCapper); ok {
		l.maxIdle = capper.MaxIdle()
	}
	return l
}

func (l *Lifecycle) Template() Template { return l.template }
func (l *Lifecycle) Category() Category { return l.category }

// Acquire hands out the most recently released instance, or creates one when
// the pool is starved. created reports which happened. Parked instances the
// host destroyed behind the pool's back are dropped and never handed out.
func (l *Lifecycle) Acquire() (id ecs.EntityID, created bool, err error) {
	for n := len(l.free); n > 0; n = len(l.free) {
		id = l.free[n-1]
		l.free = l.free[:n-1]
		if !l.isAlive(id) {
			delete(l.active, id)
			l.destroyed++
			l.lost = append(l.lost, id)
			continue
		}
		l.active[id] = true
		l.reused++
		l.factory.OnAcquire(id)
		return id, false, nil
	}
	id, err = l.create()
	if err != nil {
		return 0, false, err
	}
	l.active[id] = true
	l.factory.OnAcquire(id)
	return id, true, nil
}

func (l *Lifecycle) isAlive(id ecs.EntityID) bool {
	return l.alive == nil || l.alive(id)
}

// TakeLost returns and resets the instances Acquire dropped as dead.
func (l *Lifecycle) TakeLost() []ecs.EntityID {
	out := l.lost
	l.lost = nil
	return out
}

// Discard drops id from the pool without running any factory hook. It is for
// instances the host already destroyed.
func (l *Lifecycle) Discard(id ecs.EntityID) bool {
	on, ok := l.active[id]
	if !ok {
		return false
	}
	delete(l.active, id)
	if !on {
		if i := slices.Index(l.free, id); i >= 0 {
			l.free = slices.Delete(l.free, i, i+1)
		}
	}
	l.destroyed++
	return true
}

func (l *Lifecycle) create() (ecs.EntityID, error) {
	id, err := l.factory.Create(l.template, l.hint, l.anchor)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCreate, l.template.Name(), err)
	}
	if id.IsZero() {
		return 0, fmt.Errorf("%w: %s: factory returned no entity", ErrCreate, l.template.Name())
	}
	l.created++
	return id, nil
}

// Release parks an active instance for reuse after running the factory's
// reset hook. Releasing an instance that is not active here is ignored.
func (l *Lifecycle) Release(id ecs.EntityID) Outcome {
	if !l.active[id] {
		return Ignored
	}
	l.returned++
	if l.maxIdle > 0 && len(l.free) >= l.maxIdle {
		delete(l.active, id)
		l.destroyed++
		l.factory.OnDestroy(id)
		return Evicted
	}
	l.active[id] = false
	l.factory.OnRelease(id)
	l.free = append(l.free, id)
	return Pooled
}

// Prewarm creates inactive instances until at least n are parked, never past
// the idle cap. It returns the IDs created; on factory failure the ones
// created so far are kept.
func (l *Lifecycle) Prewarm(n int) ([]ecs.EntityID, error) {
	if l.maxIdle > 0 && n > l.maxIdle {
		n = l.maxIdle
	}
	var made []ecs.EntityID
	for len(l.free) < n {
		id, err := l.create()
		if err != nil {
			return made, err
		}
		l.active[id] = false
		l.factory.OnRelease(id)
		l.free = append(l.free, id)
		made = append(made, id)
	}
	return made, nil
}

// Clear destroys every instance, active or not, and empties the pool.
func (l *Lifecycle) Clear() []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(l.active))
	// Inactive first, newest last, then handed-out instances by ascending ID.
	ids = append(ids, l.free...)
	handed := make([]ecs.EntityID, 0, len(l.active)-len(l.free))
	for id, on := range l.active {
		if on {
			handed = append(handed, id)
		}
	}
	slices.Sort(handed)
	ids = append(ids, handed...)
	for _, id := range ids {
		l.factory.OnDestroy(id)
	}
	l.destroyed += uint64(len(ids))
	l.active = make(map[ecs.EntityID]bool, 16)
	l.free = l.free[:0]
	return ids
}

func (l *Lifecycle) Contains(id ecs.EntityID) bool {
	_, ok := l.active[id]
	return ok
}

func (l *Lifecycle) IsActive(id ecs.EntityID) bool { return l.active[id] }

func (l *Lifecycle) Counts() Counts {
	total := len(l.active)
	return Counts{Total: total, Active: total - len(l.free), Inactive: len(l.free)}
}

// Stat is a point-in-time view of one pool.
type Stat struct {
	Template string `json:"template"`
	Category string `json:"category"`
	Counts
	Created   uint64 `json:"created"`
	Reused    uint64 `json:"reused"`
	Returned  uint64 `json:"returned"`
	Destroyed uint64 `json:"destroyed"`
}

func (l *Lifecycle) Stat() Stat {
	return Stat{
		Template:  l.template.Name(),
		Category:  l.category.String(),
		Counts:    l.Counts(),
		Created:   l.created,
		Reused:    l.reused,
		Returned:  l.returned,
		Destroyed: l.destroyed,
	}
}
