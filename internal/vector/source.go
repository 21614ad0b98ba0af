package vector

import (
	"fmt"

	"github.com/GalacticDynamics/vector/internal/quantity"
)

// Source is anything that can be normalised into a vector of a given kind:
// a *Vector, or a Raw array whose last axis holds Cartesian components.
type Source interface {
	AsKind(k Kind) (*Vector, error)
}

// AsKind returns v itself, checking that it has the requested kind.
func (v *Vector) AsKind(k Kind) (*Vector, error) {
	if v.Kind() != k {
		return nil, fmt.Errorf("%s is a %s, want a %s", v.typ, v.Kind(), k)
	}
	return v, nil
}

// Raw wraps a bare quantity array so it can stand in for a Cartesian vector.
type Raw quantity.Quantity

// AsKind interprets the array as Cartesian components of kind k.
func (r Raw) AsKind(k Kind) (*Vector, error) { return FromArray(k, quantity.Quantity(r)) }

// FromArray builds a Cartesian vector of kind k from an array whose last
// axis holds the components. Widths 1, 2 and 3 select the fixed-dimension
// types; any other width, like a scalar, selects the N-dimensional type.
func FromArray(k Kind, q quantity.Quantity) (*Vector, error) {
	pos := CartesianPosND
	if s := q.Shape(); len(s) > 0 {
		switch s[len(s)-1] {
		case 1:
			pos = CartesianPos1D
		case 2:
			pos = CartesianPos2D
		case 3:
			pos = CartesianPos3D
		}
	}
	t := pos.OfKind(k)
	if t == nil {
		return nil, fmt.Errorf("no %s type for %s", k, pos)
	}
	return FromArrayAs(t, q)
}

// FromArrayAs builds a vector of type t from an array whose last axis holds
// the components in field order.
func FromArrayAs(t *Type, q quantity.Quantity) (*Vector, error) {
	if t.IsND() {
		return New(t, Components{t.fields[0].Name: q})
	}
	s := q.Shape()
	if len(s) == 0 || s[len(s)-1] != len(t.fields) {
		return nil, fmt.Errorf("%s needs a trailing axis of %d components, got shape %v",
			t, len(t.fields), s)
	}
	comps := make(Components, len(t.fields))
	for i, f := range t.fields {
		c, err := q.Index(i)
		if err != nil {
			return nil, err
		}
		comps[f.Name] = c
	}
	return New(t, comps)
}
