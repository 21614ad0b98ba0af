package convert

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Velocity converts a velocity to another chart at the given position.
func (c *Converter) Velocity(current vector.Source, target *vector.Type, position vector.Source, opts ...CallOption) (*vector.Vector, error) {
	return c.Derivative(target, current, nil, position, opts...)
}

// Acceleration converts an acceleration to another chart at the given
// position and velocity.
func (c *Converter) Acceleration(current vector.Source, target *vector.Type, velocity, position vector.Source, opts ...CallOption) (*vector.Vector, error) {
	return c.Derivative(target, current, velocity, position, opts...)
}

// Derivative re-expresses a velocity or acceleration in the chart of target
// by contracting it with the Jacobian of the position map between the two
// charts, evaluated at position. Only the J·a term is applied to
// accelerations: every cataloged chart is time-independent, so the term in
// the time derivative of J is not computed.
func (c *Converter) Derivative(target *vector.Type, current, velocity, position vector.Source, opts ...CallOption) (*vector.Vector, error) {
	if target == nil || current == nil {
		return nil, fmt.Errorf("convert: nil vector or target")
	}
	kind := target.Kind()
	if kind == vector.Position {
		return nil, &vecerr.UnsupportedConversionError{
			From: "derivative", To: target.String(), Reason: "positions are converted with Position",
		}
	}

	start := time.Now()
	cur, err := current.AsKind(kind)
	if err != nil {
		return nil, err
	}
	if cur.Type() == target {
		c.observe(kind, TierIdentity, start)
		return cur, nil
	}
	if position == nil {
		return nil, &vecerr.MissingComponentError{Type: target.String(), Component: "position"}
	}

	fromPos, toPos := cur.Type().Position(), target.Position()
	if fromPos == nil || toPos == nil {
		return nil, &vecerr.UnsupportedConversionError{From: cur.Type().String(), To: target.String(), Reason: "no position chart"}
	}

	cc := newCallContext(opts)
	pos, err := c.anchor(cur, fromPos, velocity, position, opts)
	if err != nil {
		return nil, err
	}
	if cur, err = cur.BroadcastTo(pos.Shape()); err != nil {
		return nil, err
	}

	p, err := c.newPlan(pos, toPos, cc)
	if err != nil {
		return nil, err
	}
	if err := c.lossy(p.path, cc); err != nil {
		return nil, err
	}

	contraction, err := newContraction(cur, p)
	if err != nil {
		return nil, err
	}
	posCols, err := pos.Columns(p.inUnits)
	if err != nil {
		return nil, err
	}
	derivCols, err := cur.Columns(contraction.units)
	if err != nil {
		return nil, err
	}

	n := pos.Size()
	rows := make([][]float64, n)
	err = autodiff.Vectorize(n, c.par, func(i int) error {
		jac, _, err := autodiff.Jacobian(p.path.Func(p.env(i)), row(posCols, i))
		if err != nil {
			return err
		}
		rows[i] = contraction.apply(jac, row(derivCols, i))
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.obs.ObserveJacobians(n)
	c.log.Debug("derivative transform",
		append(logging.Conversion(cur.Type().String(), target.String()), logging.Jacobians(n))...)

	width := len(p.outUnits)
	if target.IsND() {
		width = len(posCols)
	}
	outCols := transpose(rows, width)
	out, err := vector.FromColumns(target, outCols, contraction.outUnits(len(outCols)), pos.Shape(), nil)
	if err != nil {
		return nil, err
	}
	c.observe(kind, p.path.Tier, start)
	return out, nil
}

// anchor normalises the position (and, for accelerations, the velocity),
// converts the position into the chart of the derivative and broadcasts it
// against the derivative.
func (c *Converter) anchor(cur *vector.Vector, chart *vector.Type, velocity, position vector.Source, opts []CallOption) (*vector.Vector, error) {
	pos, err := position.AsKind(vector.Position)
	if err != nil {
		return nil, err
	}
	// A position already in the chart keeps its own focal length; a
	// WithFocalLength addressed to the target must not refocus it.
	if pos.Type() != chart {
		if pos, err = c.Position(pos, chart, opts...); err != nil {
			return nil, err
		}
	}

	shapes := [][]int{cur.Shape(), pos.Shape()}
	if cur.Kind() == vector.Acceleration {
		if velocity == nil {
			return nil, &vecerr.MissingComponentError{Type: cur.Type().String(), Component: "velocity"}
		}
		vel, err := velocity.AsKind(vector.Velocity)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, vel.Shape())
	}
	if chart.IsND() && cur.Features() != pos.Features() {
		return nil, &vecerr.ShapeError{
			Reason: "feature counts differ",
			Shapes: [][]int{{cur.Features()}, {pos.Features()}},
		}
	}

	shape, err := quantity.BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}
	return pos.BroadcastTo(shape)
}

// contraction holds the unit bookkeeping of out_k = Σ_j J_kj d_j.
//
// J_kj carries w'_k / w_j where w are the working units of the position
// slots. Each term J_kj d_j is brought to the unit of the j = 0 term,
// w'_k / w_0 · u_0, which is then simplified.
type contraction struct {
	units   []quantity.Unit // units the derivative columns are read in
	factors []float64       // converts term j to the unit of term 0
	out     []quantity.Unit // simplified output unit per target slot
	scales  []float64       // folds the simplification into the values
}

func at(us []quantity.Unit, i int) quantity.Unit {
	if i < len(us) {
		return us[i]
	}
	return us[len(us)-1]
}

func newContraction(cur *vector.Vector, p *plan) (*contraction, error) {
	fields := cur.Type().Fields()
	units := make([]quantity.Unit, len(fields))
	for i, f := range fields {
		units[i] = cur.MustComponent(f.Name).Unit()
	}

	width := cur.Features()
	k := &contraction{units: units, factors: make([]float64, width)}
	ref := units[0].Div(p.inUnits[0])
	for j := 0; j < width; j++ {
		f, err := at(units, j).Div(at(p.inUnits, j)).Factor(ref)
		if err != nil {
			return nil, fmt.Errorf("%s: inconsistent component units: %w", cur.Type(), err)
		}
		k.factors[j] = f
	}

	for _, w := range p.outUnits {
		u, s := w.Mul(ref).Simplify()
		k.out = append(k.out, u)
		k.scales = append(k.scales, s)
	}
	return k, nil
}

func (k *contraction) apply(jac *mat.Dense, d []float64) []float64 {
	rows, cols := jac.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			if d[j] == 0 {
				// keeps 0·Inf at singular points from poisoning the sum
				continue
			}
			sum += jac.At(i, j) * d[j] * k.factors[j]
		}
		out[i] = sum * k.scales[min(i, len(k.scales)-1)]
	}
	return out
}

func (k *contraction) outUnits(n int) []quantity.Unit {
	out := make([]quantity.Unit, n)
	for i := range out {
		out[i] = at(k.out, i)
	}
	return out
}

// JacobianResult holds per-element Jacobians of a position map. Entry (k, j)
// of every matrix is in OutUnits[k] / InUnits[j].
type JacobianResult struct {
	From, To *vector.Type
	Shape    []int
	InUnits  []quantity.Unit
	OutUnits []quantity.Unit
	Matrices []*mat.Dense
}

// Jacobian evaluates the Jacobian of the position map from one position
// type to another at every element of position.
func (c *Converter) Jacobian(from, to *vector.Type, position vector.Source, opts ...CallOption) (*JacobianResult, error) {
	if from == nil || to == nil || position == nil {
		return nil, fmt.Errorf("convert: nil type or position")
	}
	from, to = from.Position(), to.Position()
	if from == nil || to == nil {
		return nil, &vecerr.UnsupportedConversionError{Reason: "no position chart"}
	}
	pos, err := position.AsKind(vector.Position)
	if err != nil {
		return nil, err
	}
	if pos, err = c.Position(pos, from, opts...); err != nil {
		return nil, err
	}
	p, err := c.newPlan(pos, to, newCallContext(opts))
	if err != nil {
		return nil, err
	}
	if p.path.Tier == TierIdentity {
		return nil, &vecerr.UnsupportedConversionError{From: from.String(), To: to.String(), Reason: "the Jacobian of the identity is trivial"}
	}
	cols, err := pos.Columns(p.inUnits)
	if err != nil {
		return nil, err
	}

	n := pos.Size()
	res := &JacobianResult{
		From: from, To: to, Shape: pos.Shape(),
		InUnits: p.inUnits, OutUnits: p.outUnits,
		Matrices: make([]*mat.Dense, n),
	}
	err = autodiff.Vectorize(n, c.par, func(i int) error {
		jac, _, err := autodiff.Jacobian(p.path.Func(p.env(i)), row(cols, i))
		if err != nil {
			return err
		}
		res.Matrices[i] = jac
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.obs.ObserveJacobians(n)
	return res, nil
}
