package convert

import (
	"fmt"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// AddFour adds two four-vectors; the spatial parts combine in Cartesian.
func (c *Converter) AddFour(a, b *vector.FourVector) (*vector.FourVector, error) {
	t, err := a.T().Add(b.T())
	if err != nil {
		return nil, fmt.Errorf("t: %w", err)
	}
	q, err := c.Add(a.Q(), b.Q())
	if err != nil {
		return nil, err
	}
	return a.With(t, q)
}

// SubFour subtracts b from a.
func (c *Converter) SubFour(a, b *vector.FourVector) (*vector.FourVector, error) {
	t, err := a.T().Sub(b.T())
	if err != nil {
		return nil, fmt.Errorf("t: %w", err)
	}
	q, err := c.Sub(a.Q(), b.Q())
	if err != nil {
		return nil, err
	}
	return a.With(t, q)
}

// NegFour negates time and space, keeping the spatial chart.
func (c *Converter) NegFour(w *vector.FourVector) (*vector.FourVector, error) {
	q, err := c.Neg(w.Q())
	if err != nil {
		return nil, err
	}
	return w.With(w.T().Neg(), q)
}

// FourSpatial converts the spatial part of w to another 3D position type.
func (c *Converter) FourSpatial(w *vector.FourVector, target *vector.Type, opts ...CallOption) (*vector.FourVector, error) {
	q, err := c.Position(w.Q(), target, opts...)
	if err != nil {
		return nil, err
	}
	return w.With(w.T(), q)
}

// FourArray stacks [ct, x, y, z] along a trailing axis, in the length unit
// of the Cartesian spatial part.
func (c *Converter) FourArray(w *vector.FourVector) (quantity.Quantity, error) {
	q, err := c.Position(w.Q(), vector.CartesianPos3D)
	if err != nil {
		return quantity.Quantity{}, err
	}
	x := q.MustComponent("x")
	ct, err := w.C().Mul(w.T())
	if err != nil {
		return quantity.Quantity{}, err
	}
	if ct, err = ct.To(x.Unit()); err != nil {
		return quantity.Quantity{}, err
	}
	return quantity.Stack(ct, x, q.MustComponent("y"), q.MustComponent("z"))
}
