package convert

import (
	"fmt"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Add returns a+b. Positions are combined in the canonical Cartesian type of
// a, which is also the type of the result. Derivatives must share a type,
// since they only add at a common point.
func (c *Converter) Add(a, b *vector.Vector, opts ...CallOption) (*vector.Vector, error) {
	return c.combine(a, b, "add", func(x, y quantity.Quantity) (quantity.Quantity, error) { return x.Add(y) }, opts)
}

// Sub returns a-b with the same rules as Add.
func (c *Converter) Sub(a, b *vector.Vector, opts ...CallOption) (*vector.Vector, error) {
	return c.combine(a, b, "subtract", func(x, y quantity.Quantity) (quantity.Quantity, error) { return x.Sub(y) }, opts)
}

func (c *Converter) combine(a, b *vector.Vector, verb string, op func(x, y quantity.Quantity) (quantity.Quantity, error), opts []CallOption) (*vector.Vector, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("convert: nil operand")
	}
	if a.Kind() != b.Kind() {
		return nil, fmt.Errorf("cannot %s a %s and a %s", verb, a.Kind(), b.Kind())
	}

	if a.Kind() != vector.Position {
		if a.Type() != b.Type() {
			return nil, &vecerr.UnsupportedConversionError{
				From: b.Type().String(), To: a.Type().String(),
				Reason: "derivatives must be converted to a common chart at a common position before combining",
			}
		}
		return componentwise(a, b, op)
	}

	cart := a.Type().Cartesian()
	if cart == nil {
		return nil, &vecerr.UnsupportedConversionError{From: a.Type().String(), To: "Cartesian", Reason: "no canonical Cartesian type"}
	}
	ca, err := c.Position(a, cart, opts...)
	if err != nil {
		return nil, err
	}
	cb, err := c.Position(b, cart, opts...)
	if err != nil {
		return nil, err
	}
	return componentwise(ca, cb, op)
}

func componentwise(a, b *vector.Vector, op func(x, y quantity.Quantity) (quantity.Quantity, error)) (*vector.Vector, error) {
	t := a.Type()
	if t.IsND() && a.Features() != b.Features() {
		return nil, &vecerr.ShapeError{
			Reason: "feature counts differ",
			Shapes: [][]int{{a.Features()}, {b.Features()}},
		}
	}
	comps := a.Attrs()
	for _, f := range t.Fields() {
		q, err := op(a.MustComponent(f.Name), b.MustComponent(f.Name))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		comps[f.Name] = q
	}
	return vector.New(t, comps)
}

// Neg returns -v in v's own type. Curvilinear positions are negated through
// their Cartesian type and converted back.
func (c *Converter) Neg(v *vector.Vector, opts ...CallOption) (*vector.Vector, error) {
	if v == nil {
		return nil, fmt.Errorf("convert: nil vector")
	}
	if v.Kind() != vector.Position || v.Type().IsCartesian() {
		return v.Neg()
	}
	cart := v.Type().Cartesian()
	if cart == nil {
		return nil, &vecerr.UnsupportedConversionError{From: v.Type().String(), To: "Cartesian", Reason: "no canonical Cartesian type"}
	}
	cv, err := c.Position(v, cart, opts...)
	if err != nil {
		return nil, err
	}
	if cv, err = cv.Neg(); err != nil {
		return nil, err
	}
	if d, ok := v.Attr(focalLength); ok {
		opts = append([]CallOption{WithFocalLength(d)}, opts...)
	}
	return c.Position(cv, v.Type(), opts...)
}

// Norm returns the magnitude of v. Curvilinear derivatives are first
// converted to Cartesian at position (and velocity for accelerations).
func (c *Converter) Norm(v *vector.Vector, velocity, position vector.Source, opts ...CallOption) (quantity.Quantity, error) {
	if v == nil {
		return quantity.Quantity{}, fmt.Errorf("convert: nil vector")
	}
	n, err := v.Norm()
	if err == nil || v.Kind() == vector.Position {
		return n, err
	}
	cart := v.Type().Cartesian()
	if cart == nil {
		return quantity.Quantity{}, err
	}
	cv, err := c.Derivative(cart, v, velocity, position, opts...)
	if err != nil {
		return quantity.Quantity{}, err
	}
	return cv.Norm()
}
