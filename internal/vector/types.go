package vector

import (
	"fmt"
	"sort"

	"github.com/GalacticDynamics/vector/internal/quantity"
)

// Kind is the time-derivative order of a vector.
type Kind int

const (
	Position Kind = iota
	Velocity
	Acceleration
)

func (k Kind) String() string {
	switch k {
	case Position:
		return "position"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := Position; k <= Acceleration; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return Position, fmt.Errorf("unknown vector kind %q", s)
}

// TypeID names a catalog entry, e.g. "SphericalPos".
type TypeID string

// check is a per-field domain constraint run at construction.
type check int

const (
	checkNone check = iota
	checkNonNegative
	checkPolar
	checkLatitude
	checkAzimuth
)

// Field describes one named component.
type Field struct {
	Name string
	Type quantity.PhysicalType

	check check
}

// IsAzimuth reports whether the field is normalised into [0, 2π).
func (f Field) IsAzimuth() bool { return f.check == checkAzimuth }

// Type is a static catalog record: components, triad links and behaviour.
type Type struct {
	id     TypeID
	kind   Kind
	dim    int // 0 for the N-dimensional family
	chart  string
	fields []Field
	attrs  []Field

	differential TypeID
	integral     TypeID
	cartesian    TypeID

	validate func(*Vector) error
	norm     func(*Vector) (quantity.Quantity, error)
}

// ID returns the catalog identifier.
func (t *Type) ID() TypeID { return t.id }

func (t *Type) String() string { return string(t.id) }

// Kind returns the derivative order of the type.
func (t *Type) Kind() Kind { return t.kind }

// Dim returns the dimensionality; 0 means N-dimensional.
func (t *Type) Dim() int { return t.dim }

// Chart names the coordinate chart shared by a triad, e.g. "spherical".
func (t *Type) Chart() string { return t.chart }

// IsND reports whether the type stores a single feature-axis array.
func (t *Type) IsND() bool { return t.dim == 0 }

// Fields returns the ordered component descriptions.
func (t *Type) Fields() []Field { return append([]Field(nil), t.fields...) }

// Attrs returns the non-component attributes, e.g. the focal length Delta.
func (t *Type) Attrs() []Field { return append([]Field(nil), t.attrs...) }

// FieldNames returns the component names in order.
func (t *Type) FieldNames() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a component by name.
func (t *Type) Field(name string) (Field, int, bool) {
	for i, f := range t.fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

func (t *Type) attr(name string) (Field, bool) {
	for _, f := range t.attrs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Differential returns the time-derivative type, or nil.
func (t *Type) Differential() *Type { return lookup(t.differential) }

// Integral returns the time-antiderivative type, or nil.
func (t *Type) Integral() *Type { return lookup(t.integral) }

// Position walks the integral links down to the position type of the triad.
func (t *Type) Position() *Type {
	p := t
	for p != nil && p.kind != Position {
		p = p.Integral()
	}
	return p
}

// Cartesian returns the canonical Cartesian type of the same kind, or nil
// when the chart has no Cartesian counterpart.
func (t *Type) Cartesian() *Type {
	pos := t.Position()
	if pos == nil {
		return nil
	}
	c := lookup(pos.cartesian)
	for c != nil && c.kind != t.kind {
		c = c.Differential()
	}
	return c
}

// IsCartesian reports whether t is its own canonical Cartesian type.
func (t *Type) IsCartesian() bool { return t.Cartesian() == t }

// OfKind returns the member of t's triad with the given kind, or nil.
func (t *Type) OfKind(k Kind) *Type {
	c := t.Position()
	for c != nil && c.kind != k {
		c = c.Differential()
	}
	return c
}

var catalog = map[TypeID]*Type{}

func lookup(id TypeID) *Type {
	if id == "" {
		return nil
	}
	return catalog[id]
}

// Lookup finds a type by id.
func Lookup(id TypeID) (*Type, bool) {
	t, ok := catalog[id]
	return t, ok
}

// MustLookup is Lookup that panics on an unknown id.
func MustLookup(id TypeID) *Type {
	t, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("vector: unknown type %q", id))
	}
	return t
}

// Types lists the catalog sorted by dimensionality, chart and kind.
func Types() []*Type {
	out := make([]*Type, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.dim != b.dim {
			return a.dim < b.dim
		}
		if a.chart != b.chart {
			return a.chart < b.chart
		}
		return a.kind < b.kind
	})
	return out
}
