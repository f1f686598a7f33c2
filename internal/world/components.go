package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

// Node places an entity in the scene hierarchy. Every entity has one.
type Node struct {
	Name       string
	Parent     ecs.EntityID // 0 = scene root
	Children   []ecs.EntityID
	LocalPos   mgl64.Vec3
	LocalRot   mgl64.Quat
	LocalScale mgl64.Vec3
	Active     bool // own flag; see State.ActiveInHierarchy
}

func newNode(name string) *Node {
	return &Node{
		Name:       name,
		LocalRot:   mgl64.QuatIdent(),
		LocalScale: mgl64.Vec3{1, 1, 1},
		Active:     true,
	}
}

func (n *Node) removeChild(id ecs.EntityID) {
	for i, c := range n.Children {
		if c == id {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// Body is a simulated rigid body. Positions are integrated by MotionSystem.
type Body struct {
	Drag     float64 // fraction of velocity lost per second
	velocity mgl64.Vec3
	angular  mgl64.Vec3
}

func (b *Body) Velocity() mgl64.Vec3            { return b.velocity }
func (b *Body) SetVelocity(v mgl64.Vec3)        { b.velocity = v }
func (b *Body) AngularVelocity() mgl64.Vec3     { return b.angular }
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angular = w }

// Trail records recent world positions of a moving entity.
type Trail struct {
	MaxPoints int
	points    []mgl64.Vec3
}

func (t *Trail) Clear()   { t.points = t.points[:0] }
func (t *Trail) Len() int { return len(t.points) }

// Push appends p, dropping the oldest point once MaxPoints is reached.
func (t *Trail) Push(p mgl64.Vec3) {
	if t.MaxPoints > 0 && len(t.points) >= t.MaxPoints {
		copy(t.points, t.points[1:])
		t.points = t.points[:len(t.points)-1]
	}
	t.points = append(t.points, p)
}

// Points returns the recorded points, oldest first. Valid until the next Push.
func (t *Trail) Points() []mgl64.Vec3 { return t.points }

// Emitter is a one-shot sound source. Playback time is advanced by AudioSystem.
type Emitter struct {
	Clip     string
	Volume   float64
	Duration time.Duration // 0 = until stopped
	Autoplay bool
	elapsed  time.Duration
	playing  bool
}

func (e *Emitter) Play() {
	e.elapsed = 0
	e.playing = true
}

func (e *Emitter) Stop()         { e.playing = false }
func (e *Emitter) Playing() bool { return e.playing }

// Advance moves playback forward and stops the clip once it has finished.
func (e *Emitter) Advance(dt time.Duration) {
	if !e.playing {
		return
	}
	e.elapsed += dt
	if e.Duration > 0 && e.elapsed >= e.Duration {
		e.playing = false
	}
}
