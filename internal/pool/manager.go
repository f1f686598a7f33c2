package pool

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/core/event"
	"github.com/l1jgo/spawnpool/internal/core/sched"
)

// DefaultRootName names the hierarchy node that holds the category anchors.
const DefaultRootName = "PoolManager"

// Misuse kinds reported to an Observer.
const (
	MisuseInvalidCategory = "invalid_category"
	MisuseUntracked       = "untracked_return"
	MisuseCapability      = "missing_capability"
	MisuseNoPool          = "no_pool"
	MisuseClosed          = "closed"
)

// Observer is notified of pool activity. Implementations must not call back
// into the Manager.
type Observer interface {
	Spawned(s Stat, reused bool)
	Returned(s Stat)
	Cleared(s Stat)
	Misuse(kind string)
}

type Option func(*Manager)

// WithScheduler sets the scheduler ReturnAfter queues on. Without one,
// ReturnAfter returns immediately.
func WithScheduler(s *sched.Scheduler) Option { return func(m *Manager) { m.sched = s } }

// WithEvents publishes pool creation and clearing on b.
func WithEvents(b *event.Bus) Option { return func(m *Manager) { m.bus = b } }

func WithObserver(o Observer) Option { return func(m *Manager) { m.observer = o } }

func WithRootName(name string) Option { return func(m *Manager) { m.rootName = name } }

// Manager is the entry point for spawning and returning pooled instances.
// Construct one per simulation with NewManager and call Close on teardown.
type Manager struct {
	host     Host
	log      *zap.Logger
	anchors  *Anchors
	registry *Registry
	tracker  *Tracker
	sched    *sched.Scheduler
	bus      *event.Bus
	observer Observer
	rootName string
	closed   bool
}

// NewManager creates the category anchors in host and returns a ready manager.
func NewManager(host Host, factory Factory, log *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		host:     host,
		log:      log,
		tracker:  NewTracker(),
		rootName: DefaultRootName,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.anchors = NewAnchors(host, m.rootName, log)
	m.registry = NewRegistry(factory, m.anchors, host.Alive)
	return m
}

func (m *Manager) Anchors() *Anchors   { return m.anchors }
func (m *Manager) Registry() *Registry { return m.registry }
func (m *Manager) Tracker() *Tracker   { return m.tracker }

// Spawn hands out an instance of t placed per at. Caller mistakes (invalid
// category, nil template, closed manager) are logged and yield a zero ID with
// a nil error; only factory failures return an error.
func (m *Manager) Spawn(t Template, at Placement, c Category) (ecs.EntityID, error) {
	id, _, err := m.spawn(t, at, c)
	return id, err
}

// SpawnView is Spawn returning a capability view. If the instance lacks the
// requested capability, the miss is logged, the instance goes straight back
// to its pool and ok is false.
func (m *Manager) SpawnView(t Template, at Placement, c Category, want Kind) (v View, ok bool, err error) {
	id, p, err := m.spawn(t, at, c)
	if err != nil || id.IsZero() {
		return View{}, false, err
	}
	v = resolveView(m.host, id)
	if !v.Has(want) {
		m.log.Error("spawned instance lacks requested capability",
			zap.String("template", t.Name()),
			zap.Stringer("kind", want),
			zap.Uint64("entity", uint64(id)))
		m.misuse(MisuseCapability)
		m.release(id, p)
		return View{}, false, nil
	}
	return v, true, nil
}

func (m *Manager) spawn(t Template, at Placement, c Category) (ecs.EntityID, *Lifecycle, error) {
	if m.closed {
		m.log.Error("spawn on closed pool manager")
		m.misuse(MisuseClosed)
		return 0, nil, nil
	}
	if t == nil {
		m.log.Error("spawn with nil template")
		m.misuse(MisuseNoPool)
		return 0, nil, nil
	}
	if !c.Valid() {
		m.log.Error("spawn with invalid category",
			zap.String("template", t.Name()), zap.Stringer("category", c))
		m.misuse(MisuseInvalidCategory)
		return 0, nil, nil
	}

	p, created := m.registry.GetOrCreate(t, c, at)
	if created {
		m.log.Info("pool created", zap.String("template", t.Name()), zap.Stringer("category", c))
		event.Emit(m.bus, event.PoolCreated{Template: t.Name(), Category: c.String()})
	} else if p.Category() != c {
		// Category is fixed when the pool is created; later ones are advisory.
		m.log.Debug("spawn category differs from pool category",
			zap.String("template", t.Name()),
			zap.Stringer("pool_category", p.Category()),
			zap.Stringer("requested", c))
	}

	id, fresh, err := p.Acquire()
	for _, dead := range p.TakeLost() {
		m.tracker.Forget(dead)
		m.log.Warn("pooled instance destroyed outside the pool manager, dropped",
			zap.String("template", t.Name()), zap.Uint64("entity", uint64(dead)))
	}
	if err != nil {
		return 0, nil, fmt.Errorf("spawn %s: %w", t.Name(), err)
	}

	m.place(id, at)
	m.resetResidual(id)
	m.host.SetActive(id, true)
	m.tracker.Track(id, t)

	if m.observer != nil {
		m.observer.Spawned(p.Stat(), !fresh)
	}
	return id, p, nil
}

func (m *Manager) place(id ecs.EntityID, at Placement) {
	if at.Attached() {
		m.host.SetParent(id, at.Parent)
		m.host.SetLocalTransform(id, mgl64.Vec3{}, at.Rotation, unitScale)
		return
	}
	m.host.SetWorldPose(id, at.Position, at.Rotation)
}

func (m *Manager) resetResidual(id ecs.EntityID) {
	if mo, ok := m.host.Motion(id); ok {
		mo.SetVelocity(mgl64.Vec3{})
		mo.SetAngularVelocity(mgl64.Vec3{})
	}
	if tr, ok := m.host.Trail(id); ok {
		tr.Clear()
	}
}

// Return parks a spawned instance back in its pool, reparenting it under c's
// anchor first if needed. It reports whether the instance was released.
// Returning an unknown or already returned instance is a logged no-op.
func (m *Manager) Return(id ecs.EntityID, c Category) bool {
	t, ok := m.tracker.Owner(id)
	if !ok {
		m.log.Error("return of instance not spawned by this pool manager",
			zap.Uint64("entity", uint64(id)), zap.Stringer("category", c))
		m.misuse(MisuseUntracked)
		return false
	}
	p, ok := m.registry.Lookup(t)
	if !ok {
		// Records are dropped together with their pool; a survivor is stale.
		m.tracker.Forget(id)
		m.log.Error("tracked instance has no pool", zap.String("template", t.Name()),
			zap.Uint64("entity", uint64(id)))
		m.misuse(MisuseNoPool)
		return false
	}
	if !m.host.Alive(id) {
		m.tracker.Forget(id)
		p.Discard(id)
		m.log.Warn("return of instance destroyed outside the pool manager",
			zap.String("template", t.Name()), zap.Uint64("entity", uint64(id)))
		return false
	}
	if !p.IsActive(id) {
		m.log.Debug("instance already in pool", zap.String("template", t.Name()),
			zap.Uint64("entity", uint64(id)))
		return false
	}
	if anchor, ok := m.anchors.Resolve(c); ok && m.host.Parent(id) != anchor {
		m.host.SetParent(id, anchor)
	} else if !ok {
		m.misuse(MisuseInvalidCategory)
	}
	return m.release(id, p)
}

func (m *Manager) release(id ecs.EntityID, p *Lifecycle) bool {
	switch p.Release(id) {
	case Ignored:
		return false
	case Evicted:
		m.tracker.Forget(id)
		m.log.Debug("pool idle cap reached, instance destroyed",
			zap.String("template", p.Template().Name()), zap.Uint64("entity", uint64(id)))
	}
	if m.observer != nil {
		m.observer.Returned(p.Stat())
	}
	return true
}

// ReturnAfter returns the instance once delay has elapsed on the scheduler.
// It cannot be cancelled; if the instance is destroyed first, the eventual
// return is a logged no-op.
func (m *Manager) ReturnAfter(id ecs.EntityID, c Category, delay time.Duration) {
	if m.sched == nil || delay <= 0 {
		m.Return(id, c)
		return
	}
	m.sched.After(delay, func() { m.Return(id, c) })
}

// Prewarm makes sure t's pool holds at least n inactive instances, capped at
// the template's idle cap, and reports how many were created.
func (m *Manager) Prewarm(t Template, c Category, n int) (int, error) {
	switch {
	case m.closed:
		m.log.Error("prewarm on closed pool manager")
		m.misuse(MisuseClosed)
		return 0, nil
	case t == nil:
		m.log.Error("prewarm with nil template")
		m.misuse(MisuseNoPool)
		return 0, nil
	case !c.Valid():
		m.log.Error("prewarm with invalid category", zap.String("template", t.Name()), zap.Stringer("category", c))
		m.misuse(MisuseInvalidCategory)
		return 0, nil
	}
	p, created := m.registry.GetOrCreate(t, c, At(mgl64.Vec3{}, mgl64.QuatIdent()))
	if created {
		m.log.Info("pool created", zap.String("template", t.Name()), zap.Stringer("category", c))
		event.Emit(m.bus, event.PoolCreated{Template: t.Name(), Category: c.String()})
	}
	ids, err := p.Prewarm(n)
	for _, id := range ids {
		m.tracker.Track(id, t)
	}
	if err != nil {
		return len(ids), fmt.Errorf("prewarm %s: %w", t.Name(), err)
	}
	return len(ids), nil
}

// PoolSize returns t's counts, all zero when t has no pool. The category is
// accepted for symmetry with Spawn; lookup is by template alone.
func (m *Manager) PoolSize(_ Category, t Template) Counts {
	if t == nil {
		return Counts{}
	}
	p, ok := m.registry.Lookup(t)
	if !ok {
		return Counts{}
	}
	return p.Counts()
}

// Owner returns the template that produced id, if it is still tracked.
func (m *Manager) Owner(id ecs.EntityID) (Template, bool) {
	return m.tracker.Owner(id)
}

// ClearPool destroys every instance of t and forgets the pool; the next spawn
// of t starts from scratch. Clearing a template with no pool is a logged no-op.
func (m *Manager) ClearPool(t Template) bool {
	if t == nil {
		m.log.Warn("clear of nil template")
		m.misuse(MisuseNoPool)
		return false
	}
	p, ok := m.registry.Lookup(t)
	if !ok {
		m.log.Warn("no pool exists for template", zap.String("template", t.Name()))
		m.misuse(MisuseNoPool)
		return false
	}
	forgotten := m.tracker.ForgetTemplate(t)
	destroyed := p.Clear()
	m.registry.Remove(t)

	m.log.Info("pool cleared",
		zap.String("template", t.Name()),
		zap.Stringer("category", p.Category()),
		zap.Int("destroyed", len(destroyed)),
		zap.Int("records", forgotten))
	event.Emit(m.bus, event.PoolCleared{
		Template:  t.Name(),
		Category:  p.Category().String(),
		Destroyed: len(destroyed),
	})
	if m.observer != nil {
		m.observer.Cleared(p.Stat())
	}
	return true
}

// ClearCategory clears every pool registered under c and returns how many.
func (m *Manager) ClearCategory(c Category) int {
	if !c.Valid() {
		m.log.Error("clear of invalid category", zap.Stringer("category", c))
		m.misuse(MisuseInvalidCategory)
		return 0
	}
	if m.registry.Len() == 0 {
		m.log.Warn("no pools to clear")
		return 0
	}
	n := 0
	for _, t := range m.registry.TemplatesIn(c) {
		if m.ClearPool(t) {
			n++
		}
	}
	m.log.Info("cleared pools of category", zap.Stringer("category", c), zap.Int("pools", n))
	return n
}

// ClearAll clears every pool and returns how many.
func (m *Manager) ClearAll() int {
	if m.registry.Len() == 0 {
		m.log.Warn("no pools to clear")
		return 0
	}
	n := 0
	for _, t := range m.registry.Templates() {
		if m.ClearPool(t) {
			n++
		}
	}
	m.log.Info("cleared all pools", zap.Int("pools", n))
	return n
}

// Snapshot returns per-pool stats in pool creation order.
func (m *Manager) Snapshot() []Stat {
	ts := m.registry.Templates()
	out := make([]Stat, 0, len(ts))
	for _, t := range ts {
		if p, ok := m.registry.Lookup(t); ok {
			out = append(out, p.Stat())
		}
	}
	return out
}

// Close clears every pool. Later calls on the manager are logged no-ops.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	if m.registry.Len() > 0 {
		m.ClearAll()
	}
	m.closed = true
}

func (m *Manager) misuse(kind string) {
	if m.observer != nil {
		m.observer.Misuse(kind)
	}
}
