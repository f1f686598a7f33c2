package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPoolNeverIssuesZero(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	assert.False(t, id.IsZero())
	assert.Equal(t, uint32(1), id.Index())
	assert.False(t, p.Alive(0))
}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "stale destroy")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "index reused")
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Len())
}

type tag struct{ n int }

func TestWorldDeferredDestroy(t *testing.T) {
	w := NewWorld()
	tags := NewPtrComponentStore[tag]()
	w.Register(tags)

	id := w.CreateEntity()
	tags.Set(id, &tag{n: 1})
	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.True(t, w.Pending(id))
	assert.True(t, w.Alive(id), "alive until flushed")

	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.False(t, w.Alive(id))
	assert.False(t, w.Pending(id))
	assert.False(t, tags.Has(id))
	assert.Equal(t, 0, w.FlushDestroyQueue())

	w.MarkForDestruction(id)
	assert.False(t, w.Pending(id), "dead ids are not queued")
}

func TestEach2VisitsIntersection(t *testing.T) {
	as := NewPtrComponentStore[tag]()
	bs := NewPtrComponentStore[string]()
	for i := EntityID(1); i <= 5; i++ {
		as.Set(i, &tag{n: int(i)})
	}
	s := "x"
	bs.Set(2, &s)
	bs.Set(4, &s)
	bs.Set(9, &s)

	seen := map[EntityID]int{}
	Each2(as, bs, func(id EntityID, a *tag, _ *string) { seen[id] = a.n })
	assert.Equal(t, map[EntityID]int{2: 2, 4: 4}, seen)
}
