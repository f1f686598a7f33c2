package pool

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

type fakeTemplate struct {
	name    string
	motion  bool
	trail   bool
	audio   bool
	maxIdle int
	fail    bool
}

func (t *fakeTemplate) Name() string { return t.name }
func (t *fakeTemplate) MaxIdle() int { return t.maxIdle }

type fakeBody struct{ v, w mgl64.Vec3 }

func (b *fakeBody) Velocity() mgl64.Vec3            { return b.v }
func (b *fakeBody) SetVelocity(v mgl64.Vec3)        { b.v = v }
func (b *fakeBody) AngularVelocity() mgl64.Vec3     { return b.w }
func (b *fakeBody) SetAngularVelocity(w mgl64.Vec3) { b.w = w }

type fakeTrail struct{ points int }

func (t *fakeTrail) Clear()   { t.points = 0 }
func (t *fakeTrail) Len() int { return t.points }

type fakeAudio struct{ on bool }

func (a *fakeAudio) Play()         { a.on = true }
func (a *fakeAudio) Stop()         { a.on = false }
func (a *fakeAudio) Playing() bool { return a.on }

type fakeNode struct {
	name   string
	parent ecs.EntityID
	pos    mgl64.Vec3
	rot    mgl64.Quat
	scale  mgl64.Vec3
	local  bool
	active bool
}

var errFactory = errors.New("factory exploded")

// fakeHost is both the Host and the Factory for pool tests.
type fakeHost struct {
	ents      *ecs.EntityPool
	nodes     map[ecs.EntityID]*fakeNode
	bodies    map[ecs.EntityID]*fakeBody
	trails    map[ecs.EntityID]*fakeTrail
	audios    map[ecs.EntityID]*fakeAudio
	created   int
	acquired  int
	released  int
	destroyed []ecs.EntityID
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		ents:   ecs.NewEntityPool(),
		nodes:  map[ecs.EntityID]*fakeNode{},
		bodies: map[ecs.EntityID]*fakeBody{},
		trails: map[ecs.EntityID]*fakeTrail{},
		audios: map[ecs.EntityID]*fakeAudio{},
	}
}

func (h *fakeHost) CreateAnchor(name string, parent ecs.EntityID) ecs.EntityID {
	id := h.ents.Create()
	h.nodes[id] = &fakeNode{name: name, parent: parent, active: true}
	return id
}

func (h *fakeHost) Alive(id ecs.EntityID) bool { return h.ents.Alive(id) }

// kill destroys id the way a gameplay system would, bypassing the pool.
func (h *fakeHost) kill(id ecs.EntityID) {
	delete(h.nodes, id)
	delete(h.bodies, id)
	delete(h.trails, id)
	delete(h.audios, id)
	h.ents.Destroy(id)
}

func (h *fakeHost) Parent(id ecs.EntityID) ecs.EntityID {
	if n, ok := h.nodes[id]; ok {
		return n.parent
	}
	return 0
}

func (h *fakeHost) SetParent(id, parent ecs.EntityID) {
	if n, ok := h.nodes[id]; ok {
		n.parent = parent
	}
}

func (h *fakeHost) SetWorldPose(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat) {
	if n, ok := h.nodes[id]; ok {
		n.pos, n.rot, n.local = pos, rot, false
	}
}

func (h *fakeHost) SetLocalTransform(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) {
	if n, ok := h.nodes[id]; ok {
		n.pos, n.rot, n.scale, n.local = pos, rot, scale, true
	}
}

func (h *fakeHost) SetActive(id ecs.EntityID, active bool) {
	if n, ok := h.nodes[id]; ok {
		n.active = active
	}
}

func (h *fakeHost) Motion(id ecs.EntityID) (Motion, bool) {
	b, ok := h.bodies[id]
	if !ok {
		return nil, false
	}
	return b, true
}

func (h *fakeHost) Trail(id ecs.EntityID) (Trail, bool) {
	t, ok := h.trails[id]
	if !ok {
		return nil, false
	}
	return t, true
}

func (h *fakeHost) Audio(id ecs.EntityID) (Audio, bool) {
	a, ok := h.audios[id]
	if !ok {
		return nil, false
	}
	return a, true
}

func (h *fakeHost) Create(t Template, at Placement, anchor ecs.EntityID) (ecs.EntityID, error) {
	ft := t.(*fakeTemplate)
	if ft.fail {
		return 0, errFactory
	}
	id := h.ents.Create()
	parent := anchor
	if at.Attached() {
		parent = at.Parent
	}
	h.nodes[id] = &fakeNode{name: ft.name, parent: parent, pos: at.Position, rot: at.Rotation}
	if ft.motion {
		h.bodies[id] = &fakeBody{}
	}
	if ft.trail {
		h.trails[id] = &fakeTrail{}
	}
	if ft.audio {
		h.audios[id] = &fakeAudio{}
	}
	h.created++
	return id, nil
}

func (h *fakeHost) OnAcquire(ecs.EntityID) { h.acquired++ }

func (h *fakeHost) OnRelease(id ecs.EntityID) {
	h.released++
	h.SetActive(id, false)
	if t, ok := h.trails[id]; ok {
		t.Clear()
	}
}

func (h *fakeHost) OnDestroy(id ecs.EntityID) {
	h.destroyed = append(h.destroyed, id)
	delete(h.nodes, id)
	delete(h.bodies, id)
	delete(h.trails, id)
	delete(h.audios, id)
	h.ents.Destroy(id)
}

func (h *fakeHost) active(id ecs.EntityID) bool {
	n, ok := h.nodes[id]
	return ok && n.active
}

type fakeObserver struct {
	spawned, reused, returned, cleared int
	misuse                             map[string]int
}

func newFakeObserver() *fakeObserver { return &fakeObserver{misuse: map[string]int{}} }

func (o *fakeObserver) Spawned(_ Stat, reused bool) {
	o.spawned++
	if reused {
		o.reused++
	}
}
func (o *fakeObserver) Returned(Stat)      { o.returned++ }
func (o *fakeObserver) Cleared(Stat)       { o.cleared++ }
func (o *fakeObserver) Misuse(kind string) { o.misuse[kind]++ }
