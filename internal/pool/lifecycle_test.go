package pool

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

func newTestLifecycle(h *fakeHost, t *fakeTemplate) *Lifecycle {
	return newLifecycle(t, Projectile, At(mgl64.Vec3{}, mgl64.QuatIdent()), 0, h, h.Alive)
}

func assertBalanced(t *testing.T, l *Lifecycle) {
	t.Helper()
	c := l.Counts()
	assert.Equal(t, c.Total, c.Active+c.Inactive, "total must equal active+inactive")
}

func TestLifecycleAcquireCreatesWhenStarved(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})

	id, created, err := l.Acquire()
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, id.IsZero())
	assert.True(t, l.IsActive(id))
	assert.Equal(t, Counts{Total: 1, Active: 1}, l.Counts())
	assert.Equal(t, 1, h.created)
	assert.Equal(t, 1, h.acquired)
}

func TestLifecycleReusesMostRecentlyReleased(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})

	a, _, _ := l.Acquire()
	b, _, _ := l.Acquire()
	c, _, _ := l.Acquire()
	assert.Equal(t, Pooled, l.Release(a))
	assert.Equal(t, Pooled, l.Release(c))
	assert.Equal(t, Pooled, l.Release(b))
	assertBalanced(t, l)

	got, created, err := l.Acquire()
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, b, got)

	got, _, _ = l.Acquire()
	assert.Equal(t, c, got)
	got, _, _ = l.Acquire()
	assert.Equal(t, a, got)
	assert.Equal(t, 3, h.created, "no instance created while inactive ones exist")
	assertBalanced(t, l)
}

func TestLifecycleDoubleReleaseIgnored(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})

	id, _, _ := l.Acquire()
	assert.Equal(t, Pooled, l.Release(id))
	assert.Equal(t, Ignored, l.Release(id))
	assert.Equal(t, Counts{Total: 1, Inactive: 1}, l.Counts())
	assert.Equal(t, 1, h.released)

	assert.Equal(t, Ignored, l.Release(ecs.NewEntityID(999, 0)))
	assertBalanced(t, l)
}

func TestLifecycleFactoryFailure(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "bad", fail: true})

	_, _, err := l.Acquire()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreate)
	assert.ErrorIs(t, err, errFactory)
	assert.Equal(t, Counts{}, l.Counts())
}

func TestLifecycleClearDestroysEverything(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})

	a, _, _ := l.Acquire()
	b, _, _ := l.Acquire()
	l.Release(a)

	ids := l.Clear()
	assert.ElementsMatch(t, []ecs.EntityID{a, b}, ids)
	assert.ElementsMatch(t, []ecs.EntityID{a, b}, h.destroyed)
	assert.Equal(t, Counts{}, l.Counts())
	assert.Equal(t, uint64(2), l.Stat().Destroyed)

	id, created, err := l.Acquire()
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a, id)
	assert.NotEqual(t, b, id)
}

func TestLifecycleIdleCapEvicts(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "spark", maxIdle: 1})

	a, _, _ := l.Acquire()
	b, _, _ := l.Acquire()
	assert.Equal(t, Pooled, l.Release(a))
	assert.Equal(t, Evicted, l.Release(b))
	assert.Equal(t, []ecs.EntityID{b}, h.destroyed)
	assert.False(t, l.Contains(b))
	assert.Equal(t, Counts{Total: 1, Inactive: 1}, l.Counts())
	assertBalanced(t, l)
}

func TestLifecyclePrewarm(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})

	ids, err := l.Prewarm(3)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, Counts{Total: 3, Inactive: 3}, l.Counts())
	for _, id := range ids {
		assert.False(t, h.active(id))
	}

	ids, err = l.Prewarm(2)
	require.NoError(t, err)
	assert.Empty(t, ids, "already warm enough")

	_, created, _ := l.Acquire()
	assert.False(t, created)
	assert.Equal(t, uint64(1), l.Stat().Reused)
}

func TestLifecyclePrewarmStopsAtIdleCap(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball", maxIdle: 2})

	ids, err := l.Prewarm(5)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, Counts{Total: 2, Inactive: 2}, l.Counts())
	assert.Equal(t, 2, h.created)

	a, _, _ := l.Acquire()
	b, _, _ := l.Acquire()
	c, _, _ := l.Acquire()
	l.Release(a)
	l.Release(b)
	assert.Equal(t, Evicted, l.Release(c), "prewarmed pool honours the same cap")
	assertBalanced(t, l)
}

func TestLifecycleAcquireSkipsDeadInstances(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})
	ids, err := l.Prewarm(2)
	require.NoError(t, err)
	bottom, top := ids[0], ids[1]

	h.kill(top)
	id, created, err := l.Acquire()
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, bottom, id)
	assert.Equal(t, []ecs.EntityID{top}, l.TakeLost())
	assert.Empty(t, l.TakeLost(), "lost list resets")
	assert.False(t, l.Contains(top))

	h.kill(bottom)
	l.Release(bottom)
	id, created, err = l.Acquire()
	require.NoError(t, err)
	assert.True(t, created, "a dead handout is never reissued")
	assert.True(t, h.Alive(id))
	assertBalanced(t, l)
}

func TestLifecycleDiscard(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})
	a, _, _ := l.Acquire()
	b, _, _ := l.Acquire()
	l.Release(b)

	assert.True(t, l.Discard(a))
	assert.True(t, l.Discard(b))
	assert.False(t, l.Discard(a), "already gone")
	assert.Equal(t, Counts{}, l.Counts())
	assert.Empty(t, h.destroyed, "discard runs no factory hook")
	assert.Equal(t, uint64(2), l.Stat().Destroyed)
}

func TestLifecycleClearOrder(t *testing.T) {
	for i := 0; i < 5; i++ {
		h := newFakeHost()
		l := newTestLifecycle(h, &fakeTemplate{name: "ball"})
		var out []ecs.EntityID
		for j := 0; j < 6; j++ {
			id, _, _ := l.Acquire()
			out = append(out, id)
		}
		l.Release(out[4])
		l.Release(out[1])

		want := []ecs.EntityID{out[4], out[1], out[0], out[2], out[3], out[5]}
		assert.Equal(t, want, l.Clear())
		assert.Equal(t, want, h.destroyed)
	}
}

func TestLifecycleStat(t *testing.T) {
	h := newFakeHost()
	l := newTestLifecycle(h, &fakeTemplate{name: "ball"})
	a, _, _ := l.Acquire()
	l.Release(a)
	l.Acquire()

	s := l.Stat()
	assert.Equal(t, "ball", s.Template)
	assert.Equal(t, "Projectile", s.Category)
	assert.Equal(t, uint64(1), s.Created)
	assert.Equal(t, uint64(1), s.Reused)
	assert.Equal(t, uint64(1), s.Returned)
	assert.Equal(t, Counts{Total: 1, Active: 1}, s.Counts)
}
