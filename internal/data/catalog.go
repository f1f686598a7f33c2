package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/spawnpool/internal/pool"
)

// BodySpec gives a template a simulated body.
type BodySpec struct {
	Drag float64 `yaml:"drag"` // fraction of velocity lost per second (0.0-1.0)
}

// TrailSpec gives a template a trailing visual.
type TrailSpec struct {
	MaxPoints int `yaml:"max_points"`
}

// AudioSpec gives a template a one-shot sound emitter.
type AudioSpec struct {
	Clip     string  `yaml:"clip"`
	Volume   float64 `yaml:"volume"`
	Seconds  float64 `yaml:"seconds"` // clip length; 0 = plays until stopped
	Autoplay bool    `yaml:"autoplay"`
}

// Template is one pooled prototype definition.
type Template struct {
	Name     string     `yaml:"name"`
	Category string     `yaml:"category"`
	Prewarm  int        `yaml:"prewarm"`
	MaxIdle  int        `yaml:"max_idle"` // 0 = unbounded
	Scale    []float64  `yaml:"scale"`    // optional [x, y, z]
	Body     *BodySpec  `yaml:"body"`
	Trail    *TrailSpec `yaml:"trail"`
	Audio    *AudioSpec `yaml:"audio"`

	Cat pool.Category `yaml:"-"`
}

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Catalog holds all template definitions in file order.
type Catalog struct {
	byName    map[string]*Template
	templates []*Template
}

// Get returns the template with the given name, or nil if none defined.
func (c *Catalog) Get(name string) *Template {
	return c.byName[name]
}

// All returns templates in file order.
func (c *Catalog) All() []*Template {
	return c.templates
}

// Count returns the number of templates.
func (c *Catalog) Count() int {
	return len(c.templates)
}

// LoadCatalog loads template definitions from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("parse template catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	c := &Catalog{
		byName:    make(map[string]*Template, len(f.Templates)),
		templates: make([]*Template, 0, len(f.Templates)),
	}
	for i := range f.Templates {
		t := &f.Templates[i]
		if t.Name == "" {
			return nil, fmt.Errorf("template #%d: missing name", i)
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("template %q: duplicate name", t.Name)
		}
		cat, err := pool.ParseCategory(t.Category)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		t.Cat = cat
		if t.Prewarm < 0 || t.MaxIdle < 0 {
			return nil, fmt.Errorf("template %q: prewarm and max_idle must not be negative", t.Name)
		}
		if t.Scale != nil && len(t.Scale) != 3 {
			return nil, fmt.Errorf("template %q: scale needs 3 components, got %d", t.Name, len(t.Scale))
		}
		c.byName[t.Name] = t
		c.templates = append(c.templates, t)
	}
	return c, nil
}
