package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/pool"
)

// State is the simulation the pools live in: a scene hierarchy of nodes with
// optional bodies, trails and emitters. Accessed only from the game loop
// goroutine, so no locks.
type State struct {
	ecs      *ecs.World
	Nodes    *ecs.PtrComponentStore[Node]
	Bodies   *ecs.PtrComponentStore[Body]
	Trails   *ecs.PtrComponentStore[Trail]
	Emitters *ecs.PtrComponentStore[Emitter]

	protoRoot ecs.EntityID
	protos    map[string]*Prototype
	order     []*Prototype

	log *zap.Logger
}

func NewState(log *zap.Logger) *State {
	w := ecs.NewWorld()
	s := &State{
		ecs:      w,
		Nodes:    ecs.NewPtrComponentStore[Node](),
		Bodies:   ecs.NewPtrComponentStore[Body](),
		Trails:   ecs.NewPtrComponentStore[Trail](),
		Emitters: ecs.NewPtrComponentStore[Emitter](),
		protos:   make(map[string]*Prototype, 32),
		log:      log,
	}
	w.Register(s.Nodes, s.Bodies, s.Trails, s.Emitters)
	s.protoRoot = s.NewNode("Prototypes", 0)
	return s
}

func (s *State) ECS() *ecs.World { return s.ecs }

// NewNode creates an empty active node under parent (0 = scene root).
func (s *State) NewNode(name string, parent ecs.EntityID) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.Nodes.Set(id, newNode(name))
	if !parent.IsZero() {
		s.link(id, parent)
	}
	return id
}

func (s *State) node(id ecs.EntityID) *Node {
	n, _ := s.Nodes.Get(id)
	return n
}

// Alive reports whether id exists and is not queued for destruction.
func (s *State) Alive(id ecs.EntityID) bool {
	return s.ecs.Alive(id) && !s.ecs.Pending(id)
}

func (s *State) Name(id ecs.EntityID) string {
	if n := s.node(id); n != nil {
		return n.Name
	}
	return ""
}

func (s *State) Children(id ecs.EntityID) []ecs.EntityID {
	if n := s.node(id); n != nil {
		return n.Children
	}
	return nil
}

func (s *State) link(id, parent ecs.EntityID) {
	n := s.node(id)
	if n == nil {
		return
	}
	if old := s.node(n.Parent); old != nil {
		old.removeChild(id)
	}
	n.Parent = 0
	if p := s.node(parent); p != nil {
		p.Children = append(p.Children, id)
		n.Parent = parent
	}
}

// isAncestor reports whether a is b or one of b's ancestors.
func (s *State) isAncestor(a, b ecs.EntityID) bool {
	for cur := b; !cur.IsZero(); {
		if cur == a {
			return true
		}
		n := s.node(cur)
		if n == nil {
			return false
		}
		cur = n.Parent
	}
	return false
}

// WorldTransform composes id's local transform with its ancestors'.
func (s *State) WorldTransform(id ecs.EntityID) (pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) {
	n := s.node(id)
	if n == nil {
		return mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}
	}
	if n.Parent.IsZero() {
		return n.LocalPos, n.LocalRot, n.LocalScale
	}
	pp, pr, ps := s.WorldTransform(n.Parent)
	return pp.Add(pr.Rotate(mulVec(ps, n.LocalPos))), pr.Mul(n.LocalRot), mulVec(ps, n.LocalScale)
}

// ActiveInHierarchy is true when id and every ancestor are active.
func (s *State) ActiveInHierarchy(id ecs.EntityID) bool {
	for cur := id; !cur.IsZero(); {
		n := s.node(cur)
		if n == nil || !n.Active {
			return false
		}
		cur = n.Parent
	}
	return true
}

// ── pool.Hierarchy ─────────────────────────────────────────────────

func (s *State) CreateAnchor(name string, parent ecs.EntityID) ecs.EntityID {
	return s.NewNode(name, parent)
}

func (s *State) Parent(id ecs.EntityID) ecs.EntityID {
	if n := s.node(id); n != nil {
		return n.Parent
	}
	return 0
}

// SetParent moves id under parent keeping its world pose. Parenting a node
// under itself or its own subtree is refused.
func (s *State) SetParent(id, parent ecs.EntityID) {
	if s.node(id) == nil {
		return
	}
	if !parent.IsZero() && (s.node(parent) == nil || s.isAncestor(id, parent)) {
		s.log.Warn("refused reparent", zap.Uint64("entity", uint64(id)), zap.Uint64("parent", uint64(parent)))
		return
	}
	pos, rot, _ := s.WorldTransform(id)
	s.link(id, parent)
	s.SetWorldPose(id, pos, rot)
}

func (s *State) SetWorldPose(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat) {
	n := s.node(id)
	if n == nil {
		return
	}
	if n.Parent.IsZero() {
		n.LocalPos, n.LocalRot = pos, rot
		return
	}
	pp, pr, ps := s.WorldTransform(n.Parent)
	inv := pr.Inverse()
	n.LocalPos = divVec(inv.Rotate(pos.Sub(pp)), ps)
	n.LocalRot = inv.Mul(rot)
}

func (s *State) SetLocalTransform(id ecs.EntityID, pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) {
	if n := s.node(id); n != nil {
		n.LocalPos, n.LocalRot, n.LocalScale = pos, rot, scale
	}
}

func (s *State) SetActive(id ecs.EntityID, active bool) {
	if n := s.node(id); n != nil {
		n.Active = active
	}
}

// ── pool.Capabilities ──────────────────────────────────────────────

func (s *State) Motion(id ecs.EntityID) (pool.Motion, bool) {
	b, ok := s.Bodies.Get(id)
	if !ok {
		return nil, false
	}
	return b, true
}

func (s *State) Trail(id ecs.EntityID) (pool.Trail, bool) {
	t, ok := s.Trails.Get(id)
	if !ok {
		return nil, false
	}
	return t, true
}

func (s *State) Audio(id ecs.EntityID) (pool.Audio, bool) {
	e, ok := s.Emitters.Get(id)
	if !ok {
		return nil, false
	}
	return e, true
}

// Destroy detaches id and queues it for end-of-tick destruction. Its children
// are moved to the scene root rather than destroyed, since they may belong to
// other pools.
func (s *State) Destroy(id ecs.EntityID) {
	n := s.node(id)
	if n == nil {
		return
	}
	for _, c := range append([]ecs.EntityID(nil), n.Children...) {
		s.SetParent(c, 0)
	}
	n.Active = false
	s.link(id, 0)
	s.ecs.MarkForDestruction(id)
}

// Flush destroys everything queued by Destroy.
func (s *State) Flush() int {
	return s.ecs.FlushDestroyQueue()
}

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func divVec(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := range out {
		if b[i] != 0 {
			out[i] = a[i] / b[i]
		}
	}
	return out
}

var _ pool.Host = (*State)(nil)
