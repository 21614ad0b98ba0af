package convert

import (
	"fmt"
	"time"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

const focalLength = "Delta"

// plan is a resolved position map together with its working units and the
// context it reads.
type plan struct {
	path     *Path
	length   quantity.Unit
	inUnits  []quantity.Unit
	outUnits []quantity.Unit
	base     Env
	extra    map[string][]float64
}

func (p *plan) env(i int) *Env {
	env := p.base
	if len(p.extra) > 0 {
		env.Extra = make(map[string]float64, len(p.extra))
		for k, vals := range p.extra {
			env.Extra[k] = vals[i]
		}
	}
	return &env
}

func hasFocalLength(t *vector.Type) bool {
	for _, a := range t.Attrs() {
		if a.Name == focalLength {
			return true
		}
	}
	return false
}

// refocus reports whether a prolate vector is being asked for a different
// focal length than it carries.
func refocus(v *vector.Vector, cc *callContext) bool {
	if cc.delta == nil {
		return false
	}
	d, ok := v.Attr(focalLength)
	if !ok {
		return false
	}
	want, err := inWorking(*cc.delta, d.Unit())
	return err != nil || want != d.At(0)
}

func (c *Converter) resolve(from *vector.Vector, to *vector.Type, cc *callContext) (*Path, error) {
	path, err := c.registry.Resolve(from.Type(), to)
	if err != nil || path.Tier != TierIdentity {
		return path, err
	}
	// same chart, new focal length: go through the Cartesian pivot
	cart := to.Cartesian()
	if cart == nil || !refocus(from, cc) {
		return path, nil
	}
	out, err := c.registry.Resolve(from.Type(), cart)
	if err != nil {
		return nil, err
	}
	back, err := c.registry.Resolve(cart, to)
	if err != nil {
		return nil, err
	}
	return &Path{From: from.Type(), To: to, Tier: TierPivot, Rules: append(append([]*Rule{}, out.Rules...), back.Rules...)}, nil
}

// newPlan resolves the map from the chart of a position to another position
// type and gathers the focal lengths and context components it needs.
func (c *Converter) newPlan(from *vector.Vector, to *vector.Type, cc *callContext) (*plan, error) {
	path, err := c.resolve(from, to, cc)
	if err != nil {
		return nil, err
	}

	p := &plan{path: path, length: referenceLength(from)}
	if p.inUnits, err = slotUnits(from.Type(), p.length); err != nil {
		return nil, err
	}
	if p.outUnits, err = slotUnits(to, p.length); err != nil {
		return nil, err
	}

	if d, ok := from.Attr(focalLength); ok {
		if p.base.FromDelta, err = inWorking(d, p.length); err != nil {
			return nil, err
		}
	}
	if hasFocalLength(to) {
		switch {
		case cc.delta != nil:
			if p.base.ToDelta, err = inWorking(*cc.delta, p.length); err != nil {
				return nil, err
			}
		case p.base.FromDelta > 0:
			p.base.ToDelta = p.base.FromDelta
		default:
			return nil, &vecerr.MissingComponentError{Type: to.String(), Component: focalLength}
		}
		if p.base.ToDelta <= 0 {
			return nil, &vecerr.DomainError{Type: to.String(), Field: focalLength, Constraint: "focal length must be positive"}
		}
	}

	for _, name := range path.Requires() {
		q, ok := cc.extra[name]
		if !ok {
			return nil, &vecerr.UnsupportedConversionError{
				From: from.Type().String(), To: to.String(),
				Reason: fmt.Sprintf("component %q must be supplied with WithComponent", name),
			}
		}
		if q, err = q.BroadcastTo(from.Shape()); err != nil {
			return nil, err
		}
		vals, err := q.Value(p.length)
		if err != nil {
			return nil, fmt.Errorf("context component %q: %w", name, err)
		}
		if p.extra == nil {
			p.extra = map[string][]float64{}
		}
		p.extra[name] = vals
	}
	return p, nil
}

// targetAttrs carries the focal length onto a prolate result.
func (p *plan) targetAttrs(to *vector.Type) vector.Components {
	if !hasFocalLength(to) {
		return nil
	}
	return vector.Components{focalLength: quantity.Scalar(p.base.ToDelta, p.length)}
}

// row gathers the slots of batch element i.
func row(cols [][]float64, i int) []float64 {
	x := make([]float64, len(cols))
	for j := range cols {
		x[j] = cols[j][i]
	}
	return x
}

// transpose turns per-element results into per-slot columns.
func transpose(rows [][]float64, width int) [][]float64 {
	if len(rows) > 0 {
		width = len(rows[0])
	}
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(rows))
		for i, r := range rows {
			cols[j][i] = r[j]
		}
	}
	return cols
}

// Position converts a position vector to another position type.
func (c *Converter) Position(current *vector.Vector, target *vector.Type, opts ...CallOption) (*vector.Vector, error) {
	if current == nil || target == nil {
		return nil, fmt.Errorf("convert: nil vector or target")
	}
	if current.Kind() != vector.Position || target.Kind() != vector.Position {
		return nil, &vecerr.UnsupportedConversionError{
			From: current.Type().String(), To: target.String(),
			Reason: "derivatives are converted with Velocity or Acceleration",
		}
	}

	start := time.Now()
	cc := newCallContext(opts)
	if current.Type() == target && !refocus(current, cc) {
		c.observe(vector.Position, TierIdentity, start)
		return current, nil
	}

	p, err := c.newPlan(current, target, cc)
	if err != nil {
		return nil, err
	}
	if err := c.lossy(p.path, cc); err != nil {
		return nil, err
	}
	if p.path.Tier == TierPivot {
		c.log.Debug("pivot conversion",
			append(logging.Conversion(current.Type().String(), target.String()), logging.Path(p.path.Hops()))...)
	}

	cols, err := current.Columns(p.inUnits)
	if err != nil {
		return nil, err
	}
	n := current.Size()
	rows := make([][]float64, n)
	err = autodiff.Vectorize(n, c.par, func(i int) error {
		out, err := autodiff.Eval(p.path.Func(p.env(i)), row(cols, i))
		if err != nil {
			return err
		}
		rows[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	width := len(p.outUnits)
	if target.IsND() {
		width = len(cols)
	}
	out, err := vector.FromColumns(target, transpose(rows, width), p.outUnits, current.Shape(), p.targetAttrs(target))
	if err != nil {
		return nil, err
	}
	c.observe(vector.Position, p.path.Tier, start)
	return out, nil
}
