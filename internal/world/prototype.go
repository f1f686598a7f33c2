package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/pool"
)

// ErrUnknownPrototype is returned by Factory.Create for templates this state
// did not register.
var ErrUnknownPrototype = errors.New("unknown prototype")

// Prototype is a registered template: a live entity under the prototype root
// that instances are cloned from. It is the pool key, so it is always handled
// by pointer.
type Prototype struct {
	name     string
	category pool.Category
	prewarm  int
	maxIdle  int
	entity   ecs.EntityID
}

func (p *Prototype) Name() string            { return p.name }
func (p *Prototype) MaxIdle() int            { return p.maxIdle }
func (p *Prototype) Category() pool.Category { return p.category }
func (p *Prototype) Prewarm() int            { return p.prewarm }
func (p *Prototype) Entity() ecs.EntityID    { return p.entity }

// Register builds a prototype entity from a catalog template.
func (s *State) Register(t *data.Template) (*Prototype, error) {
	if _, dup := s.protos[t.Name]; dup {
		return nil, fmt.Errorf("prototype %q already registered", t.Name)
	}
	id := s.NewNode(t.Name, s.protoRoot)
	if len(t.Scale) == 3 {
		s.node(id).LocalScale = mgl64.Vec3{t.Scale[0], t.Scale[1], t.Scale[2]}
	}
	if t.Body != nil {
		s.Bodies.Set(id, &Body{Drag: t.Body.Drag})
	}
	if t.Trail != nil {
		s.Trails.Set(id, &Trail{MaxPoints: t.Trail.MaxPoints})
	}
	if t.Audio != nil {
		s.Emitters.Set(id, &Emitter{
			Clip:     t.Audio.Clip,
			Volume:   t.Audio.Volume,
			Duration: time.Duration(t.Audio.Seconds * float64(time.Second)),
			Autoplay: t.Audio.Autoplay,
		})
	}
	p := &Prototype{
		name:     t.Name,
		category: t.Cat,
		prewarm:  t.Prewarm,
		maxIdle:  t.MaxIdle,
		entity:   id,
	}
	s.protos[t.Name] = p
	s.order = append(s.order, p)
	return p, nil
}

// LoadCatalog registers every template in c, in file order.
func (s *State) LoadCatalog(c *data.Catalog) error {
	for _, t := range c.All() {
		if _, err := s.Register(t); err != nil {
			return err
		}
	}
	s.log.Info("prototypes registered", zap.Int("count", len(s.order)))
	return nil
}

// Prototype returns the prototype registered under name, or nil.
func (s *State) Prototype(name string) *Prototype {
	return s.protos[name]
}

// Prototypes returns all prototypes in registration order.
func (s *State) Prototypes() []*Prototype {
	return s.order
}

func (s *State) owns(t pool.Template) (*Prototype, bool) {
	p, ok := t.(*Prototype)
	if !ok || p == nil || s.protos[p.name] != p {
		return nil, false
	}
	return p, true
}
