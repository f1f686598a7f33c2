package pool

import (
	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/ecs"
)

// Anchors resolves a category to the hierarchy node its instances live under.
// All anchors are created up front, one per category, beneath a single root.
type Anchors struct {
	root ecs.EntityID
	ids  [numCategories]ecs.EntityID
	log  *zap.Logger
}

func NewAnchors(h Hierarchy, rootName string, log *zap.Logger) *Anchors {
	a := &Anchors{log: log}
	a.root = h.CreateAnchor(rootName, 0)
	for _, c := range Categories() {
		a.ids[c] = h.CreateAnchor(c.AnchorName(), a.root)
	}
	return a
}

// Resolve returns c's anchor. An invalid category is a caller bug: it is
// logged and no anchor is returned.
func (a *Anchors) Resolve(c Category) (ecs.EntityID, bool) {
	if !c.Valid() {
		a.log.Error("invalid pool category", zap.Stringer("category", c))
		return 0, false
	}
	return a.ids[c], true
}

// Root is the node every anchor hangs from.
func (a *Anchors) Root() ecs.EntityID { return a.root }
