package pool

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

func TestRegistryGetOrCreate(t *testing.T) {
	h := newFakeHost()
	anchors := NewAnchors(h, DefaultRootName, zap.NewNop())
	r := NewRegistry(h, anchors, h.Alive)
	a := &fakeTemplate{name: "a"}
	hint := At(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())

	p1, created := r.GetOrCreate(a, VFX, hint)
	assert.True(t, created)
	p2, created := r.GetOrCreate(a, Projectile, hint)
	assert.False(t, created)
	assert.Same(t, p1, p2)

	c, ok := r.Category(a)
	assert.True(t, ok)
	assert.Equal(t, VFX, c, "category is fixed at first use")

	id, _, err := p1.Acquire()
	assert.NoError(t, err)
	vfxAnchor, _ := anchors.Resolve(VFX)
	assert.Equal(t, vfxAnchor, h.Parent(id), "instances are created under the pool's anchor")
}

func TestRegistrySnapshotsAreCopies(t *testing.T) {
	h := newFakeHost()
	r := NewRegistry(h, nil, nil)
	a, b, c := &fakeTemplate{name: "a"}, &fakeTemplate{name: "b"}, &fakeTemplate{name: "c"}
	hint := At(mgl64.Vec3{}, mgl64.QuatIdent())
	r.GetOrCreate(a, VFX, hint)
	r.GetOrCreate(b, Projectile, hint)
	r.GetOrCreate(c, VFX, hint)

	all := r.Templates()
	assert.Equal(t, []Template{a, b, c}, all)
	assert.Equal(t, []Template{a, c}, r.TemplatesIn(VFX))
	assert.Empty(t, r.TemplatesIn(AudioSource))

	for _, tmpl := range all {
		assert.True(t, r.Remove(tmpl))
	}
	assert.Equal(t, 0, r.Len())
	assert.Len(t, all, 3, "snapshot unaffected by removal")
	assert.False(t, r.Remove(a))

	_, ok := r.Lookup(a)
	assert.False(t, ok)
	_, ok = r.Category(a)
	assert.False(t, ok)
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	a, b := &fakeTemplate{name: "a"}, &fakeTemplate{name: "b"}
	id1, id2, id3 := ecs.NewEntityID(1, 0), ecs.NewEntityID(2, 0), ecs.NewEntityID(3, 0)

	assert.True(t, tr.Track(id1, a))
	assert.False(t, tr.Track(id1, b), "first owner wins")
	tr.Track(id2, a)
	tr.Track(id3, b)

	owner, ok := tr.Owner(id1)
	assert.True(t, ok)
	assert.Equal(t, Template(a), owner)

	assert.Equal(t, 2, tr.ForgetTemplate(a))
	assert.Equal(t, 1, tr.Len())
	_, ok = tr.Owner(id2)
	assert.False(t, ok)

	tr.Forget(id3)
	assert.Equal(t, 0, tr.Len())
}

func TestAnchors(t *testing.T) {
	h := newFakeHost()
	anchors := NewAnchors(h, "Pools", zap.NewNop())

	assert.Equal(t, "Pools", h.nodes[anchors.Root()].name)
	seen := map[ecs.EntityID]bool{}
	for _, c := range Categories() {
		id, ok := anchors.Resolve(c)
		assert.True(t, ok)
		assert.Equal(t, c.AnchorName(), h.nodes[id].name)
		assert.Equal(t, anchors.Root(), h.Parent(id))
		seen[id] = true
	}
	assert.Len(t, seen, 3)

	id, ok := anchors.Resolve(Category(9))
	assert.False(t, ok)
	assert.True(t, id.IsZero())
}
