package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/pool"
)

// Factory clones prototypes into the scene. It implements pool.Factory.
type Factory struct {
	st *State
}

func NewFactory(st *State) *Factory {
	return &Factory{st: st}
}

// Create clones the prototype behind t. The prototype is deactivated for the
// duration of the clone so the copy starts inactive, then restored.
func (f *Factory) Create(t pool.Template, at pool.Placement, anchor ecs.EntityID) (ecs.EntityID, error) {
	p, ok := f.st.owns(t)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPrototype, t.Name())
	}
	src := f.st.node(p.entity)
	if src == nil {
		return 0, fmt.Errorf("%w: %s (entity gone)", ErrUnknownPrototype, p.name)
	}

	wasActive := src.Active
	src.Active = false
	id := f.clone(p.entity)
	src.Active = wasActive

	if at.Attached() {
		f.st.link(id, at.Parent)
		f.st.SetLocalTransform(id, mgl64.Vec3{}, at.Rotation, mgl64.Vec3{1, 1, 1})
	} else {
		f.st.link(id, anchor)
		f.st.SetWorldPose(id, at.Position, at.Rotation)
	}
	return id, nil
}

func (f *Factory) clone(src ecs.EntityID) ecs.EntityID {
	s := f.st
	n := s.node(src)
	id := s.ecs.CreateEntity()
	s.Nodes.Set(id, &Node{
		Name:       n.Name,
		LocalPos:   n.LocalPos,
		LocalRot:   n.LocalRot,
		LocalScale: n.LocalScale,
		Active:     n.Active,
	})
	if b, ok := s.Bodies.Get(src); ok {
		s.Bodies.Set(id, &Body{Drag: b.Drag})
	}
	if t, ok := s.Trails.Get(src); ok {
		s.Trails.Set(id, &Trail{MaxPoints: t.MaxPoints})
	}
	if e, ok := s.Emitters.Get(src); ok {
		s.Emitters.Set(id, &Emitter{
			Clip:     e.Clip,
			Volume:   e.Volume,
			Duration: e.Duration,
			Autoplay: e.Autoplay,
		})
	}
	return id
}

// OnAcquire starts autoplay emitters. Activation itself is done by the manager.
func (f *Factory) OnAcquire(id ecs.EntityID) {
	if e, ok := f.st.Emitters.Get(id); ok && e.Autoplay {
		e.Play()
	}
}

// OnRelease deactivates, silences and clears an instance going back to its
// pool.
func (f *Factory) OnRelease(id ecs.EntityID) {
	f.st.SetActive(id, false)
	if t, ok := f.st.Trails.Get(id); ok {
		t.Clear()
	}
	if e, ok := f.st.Emitters.Get(id); ok {
		e.Stop()
	}
}

func (f *Factory) OnDestroy(id ecs.EntityID) {
	f.st.Destroy(id)
}

var _ pool.Factory = (*Factory)(nil)
