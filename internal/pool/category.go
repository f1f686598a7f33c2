package pool

import (
	"fmt"
	"strings"
)

// Category classifies pooled entities for grouping and bulk operations.
type Category uint8

const (
	Projectile Category = iota
	VFX
	AudioSource

	numCategories
)

var categoryNames = [numCategories]string{"Projectile", "VFX", "AudioSource"}

// anchorNames are the hierarchy node names instances are parked under.
var anchorNames = [numCategories]string{"Projectiles", "VFX", "AudioSources"}

func (c Category) Valid() bool { return c < numCategories }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// AnchorName returns the name of the category's hierarchy anchor, or "" for
// an invalid category.
func (c Category) AnchorName() string {
	if !c.Valid() {
		return ""
	}
	return anchorNames[c]
}

// Categories lists every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory accepts a category or anchor name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for c := Category(0); c < numCategories; c++ {
		if strings.EqualFold(s, categoryNames[c]) || strings.EqualFold(s, anchorNames[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
