// Package dashboard holds the host application the assistant drives: the
// group/element model, the command interpreter, settings and hotkey
// persistence, and terminal rendering.
package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ElementType enumerates the supported display element kinds.
type ElementType string

const (
	TypeGauge     ElementType = "gauge"
	TypeSwitch    ElementType = "switch"
	TypeButton    ElementType = "button"
	TypeIndicator ElementType = "indicator"
	TypeText      ElementType = "text"
	TypeNumber    ElementType = "number"
	TypeSparkline ElementType = "sparkline"
)

// ElementTypes lists all valid element types in display order.
var ElementTypes = []ElementType{
	TypeGauge, TypeSwitch, TypeButton, TypeIndicator, TypeText, TypeNumber, TypeSparkline,
}

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	for _, known := range ElementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Element is one display element bound to a state id.
type Element struct {
	Name    string      `yaml:"name"`
	Type    ElementType `yaml:"type"`
	StateID string      `yaml:"state_id,omitempty"`
	Unit    string      `yaml:"unit,omitempty"`
	Min     float64     `yaml:"min,omitempty"`
	Max     float64     `yaml:"max,omitempty"`
	Value   string      `yaml:"value,omitempty"`
}

// Group is a named collection of elements.
type Group struct {
	Name     string    `yaml:"name"`
	Elements []Element `yaml:"elements"`
}

// Model is the dashboard state. Groups keep insertion order; lookups are
// case-insensitive.
type Model struct {
	mu     sync.Mutex
	groups []*Group
	theme  string
}

// NewModel creates an empty dashboard.
func NewModel() *Model {
	return &Model{theme: "default"}
}

// AddElement adds an element to a group, creating the group on first use.
// Adding a duplicate element name within a group is an error.
func (m *Model) AddElement(group string, el Element) error {
	if el.Name == "" {
		return fmt.Errorf("element name required")
	}
	if el.Type == "" {
		el.Type = TypeText
	}
	if !el.Type.Valid() {
		return fmt.Errorf("unknown element type %q", el.Type)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.findGroupLocked(group)
	if g == nil {
		g = &Group{Name: group}
		m.groups = append(m.groups, g)
	}
	for _, existing := range g.Elements {
		if strings.EqualFold(existing.Name, el.Name) {
			return fmt.Errorf("element %q already exists in group %q", el.Name, g.Name)
		}
	}
	g.Elements = append(g.Elements, el)
	return nil
}

// RemoveElement removes an element; empty name removes the whole group.
func (m *Model) RemoveElement(group, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.findGroupLocked(group)
	if g == nil {
		return fmt.Errorf("no group %q", group)
	}
	if name == "" {
		for i, candidate := range m.groups {
			if candidate == g {
				m.groups = append(m.groups[:i], m.groups[i+1:]...)
				return nil
			}
		}
	}
	for i, el := range g.Elements {
		if strings.EqualFold(el.Name, name) {
			g.Elements = append(g.Elements[:i], g.Elements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no element %q in group %q", name, group)
}

// SetValue updates the displayed value of an element. Bounded numeric types
// reject values outside [min, max] when bounds are set.
func (m *Model) SetValue(group, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.findGroupLocked(group)
	if g == nil {
		return fmt.Errorf("no group %q", group)
	}
	for i := range g.Elements {
		el := &g.Elements[i]
		if !strings.EqualFold(el.Name, name) {
			continue
		}
		if (el.Type == TypeGauge || el.Type == TypeNumber) && el.Min < el.Max {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("%s expects a numeric value, got %q", el.Type, value)
			}
			if f < el.Min || f > el.Max {
				return fmt.Errorf("value %v out of range [%v, %v]", f, el.Min, el.Max)
			}
		}
		el.Value = value
		return nil
	}
	return fmt.Errorf("no element %q in group %q", name, group)
}

// Groups returns a deep copy of the dashboard in insertion order.
func (m *Model) Groups() []Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Group, 0, len(m.groups))
	for _, g := range m.groups {
		cp := Group{Name: g.Name, Elements: append([]Element(nil), g.Elements...)}
		out = append(out, cp)
	}
	return out
}

// Theme returns the active theme name.
func (m *Model) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

// SetTheme switches the active theme.
func (m *Model) SetTheme(name string) error {
	if _, ok := themes[name]; !ok {
		known := make([]string, 0, len(themes))
		for k := range themes {
			known = append(known, k)
		}
		sort.Strings(known)
		return fmt.Errorf("unknown theme %q (known: %s)", name, strings.Join(known, ", "))
	}
	m.mu.Lock()
	m.theme = name
	m.mu.Unlock()
	return nil
}

func (m *Model) findGroupLocked(name string) *Group {
	for _, g := range m.groups {
		if strings.EqualFold(g.Name, name) {
			return g
		}
	}
	return nil
}
