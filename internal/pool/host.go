package pool

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

// ErrCreate wraps every factory failure surfaced by Spawn and Prewarm.
var ErrCreate = errors.New("create instance")

// Template identifies what kind of entity a pool produces. Two templates are
// the same pool key when they compare equal, so implementations should be
// pointer types. The pool never destroys a template.
type Template interface {
	Name() string
}

// IdleCapper is optionally implemented by templates that bound how many
// inactive instances their pool keeps. Zero or less means unbounded.
type IdleCapper interface {
	MaxIdle() int
}

// Factory produces and tears down instances. The On* hooks match the pool's
// state transitions.
type Factory interface {
	Create(t Template, at Placement, anchor ecs.EntityID) (ecs.EntityID, error)
	OnAcquire(id ecs.EntityID)
	OnRelease(id ecs.EntityID)
	OnDestroy(id ecs.EntityID)
}

// Hierarchy is the organisational scene service. Alive reports false once
// the entity has been destroyed or queued for destruction.
type Hierarchy interface {
	Alive(id ecs.EntityID) bool
	CreateAnchor(name string, parent ecs.EntityID) ecs.EntityID
	Parent(id ecs.EntityID) ecs.EntityID
	SetParent(id, parent ecs.EntityID)
	SetWorldPose(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat)
	SetLocalTransform(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3)
	SetActive(id ecs.EntityID, active bool)
}

// Motion is a physically simulated body.
type Motion interface {
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)
}

// Trail is a trailing visual that accumulates points while the instance moves.
type Trail interface {
	Clear()
	Len() int
}

// Audio is a one-shot sound emitter.
type Audio interface {
	Play()
	Stop()
	Playing() bool
}

// Capabilities looks up optional per-instance capabilities.
type Capabilities interface {
	Motion(id ecs.EntityID) (Motion, bool)
	Trail(id ecs.EntityID) (Trail, bool)
	Audio(id ecs.EntityID) (Audio, bool)
}

// Host is everything the Manager needs from the simulation besides creation.
type Host interface {
	Hierarchy
	Capabilities
}

// Kind names a capability view a caller can ask Spawn for.
type Kind uint8

const (
	KindEntity Kind = iota
	KindMotion
	KindTrail
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindMotion:
		return "motion"
	case KindTrail:
		return "trail"
	case KindAudio:
		return "audio"
	}
	return "unknown"
}

// View is a spawned instance together with the capabilities it exposes.
// Absent capabilities are nil.
type View struct {
	Entity ecs.EntityID
	Motion Motion
	Trail  Trail
	Audio  Audio
}

// Has reports whether the view carries capability k.
func (v View) Has(k Kind) bool {
	switch k {
	case KindEntity:
		return !v.Entity.IsZero()
	case KindMotion:
		return v.Motion != nil
	case KindTrail:
		return v.Trail != nil
	case KindAudio:
		return v.Audio != nil
	}
	return false
}

func resolveView(h Capabilities, id ecs.EntityID) View {
	v := View{Entity: id}
	if m, ok := h.Motion(id); ok {
		v.Motion = m
	}
	if t, ok := h.Trail(id); ok {
		v.Trail = t
	}
	if a, ok := h.Audio(id); ok {
		v.Audio = a
	}
	return v
}
