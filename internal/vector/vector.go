package vector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// Components maps component (and attribute) names to values.
type Components map[string]quantity.Quantity

// Vector is an immutable, validated set of components of one catalog type.
// All components share the batch shape of the vector; for the N-dimensional
// family the single component carries an extra trailing feature axis.
type Vector struct {
	typ   *Type
	comps []quantity.Quantity
	attrs map[string]quantity.Quantity
	shape []int
}

// New validates comps against t and builds a vector. Attributes such as the
// prolate focal length "Delta" are passed alongside the components.
func New(t *Type, comps Components) (*Vector, error) {
	if t == nil {
		return nil, fmt.Errorf("vector: nil type")
	}

	values := make([]quantity.Quantity, len(t.fields))
	found := make([]bool, len(t.fields))
	attrs := map[string]quantity.Quantity{}
	for name, q := range comps {
		if _, i, ok := t.Field(name); ok {
			values[i], found[i] = q, true
			continue
		}
		if _, ok := t.attr(name); ok {
			attrs[name] = q
			continue
		}
		return nil, fmt.Errorf("%s: unknown component %q: %w", t, name, vecerr.ErrInvalidComponent)
	}
	for i, f := range t.fields {
		if !found[i] {
			return nil, &vecerr.MissingComponentError{Type: t.String(), Component: f.Name}
		}
		if !values[i].Unit().Is(f.Type) {
			return nil, &vecerr.UnitError{Field: f.Name, Want: f.Type.String(), Got: values[i].Unit().String()}
		}
	}
	for _, a := range t.attrs {
		q, ok := attrs[a.Name]
		if !ok {
			return nil, &vecerr.MissingComponentError{Type: t.String(), Component: a.Name}
		}
		if !q.Unit().Is(a.Type) {
			return nil, &vecerr.UnitError{Field: a.Name, Want: a.Type.String(), Got: q.Unit().String()}
		}
		if !q.IsScalar() {
			return nil, &vecerr.ShapeError{Reason: a.Name + " must be a scalar", Shapes: [][]int{q.Shape()}}
		}
	}

	v := &Vector{typ: t, comps: values, attrs: attrs}
	if err := v.broadcast(); err != nil {
		return nil, err
	}
	if t.kind == Position {
		v.wrapAzimuths()
	}
	if err := v.check(); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is New that panics on error. It is meant for literals in tests
// and examples.
func MustNew(t *Type, comps Components) *Vector {
	v, err := New(t, comps)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Vector) broadcast() error {
	if v.typ.IsND() {
		q := v.comps[0]
		if q.IsScalar() {
			q, _ = q.Reshape([]int{1})
		}
		v.comps[0] = q
		s := q.Shape()
		v.shape = s[:len(s)-1]
		return nil
	}

	shapes := make([][]int, len(v.comps))
	for i, q := range v.comps {
		shapes[i] = q.Shape()
	}
	shape, err := quantity.BroadcastShapes(shapes...)
	if err != nil {
		return err
	}
	for i, q := range v.comps {
		if v.comps[i], err = q.BroadcastTo(shape); err != nil {
			return err
		}
	}
	v.shape = shape
	return nil
}

// Type returns the catalog type of v.
func (v *Vector) Type() *Type { return v.typ }

// Kind returns the derivative order of v.
func (v *Vector) Kind() Kind { return v.typ.kind }

// Shape returns the batch shape.
func (v *Vector) Shape() []int { return append([]int{}, v.shape...) }

// Size returns the number of batch elements.
func (v *Vector) Size() int { return quantity.Size(v.shape) }

// Features returns the number of scalar slots per element: the feature
// count for the N-dimensional family, the field count otherwise.
func (v *Vector) Features() int {
	if v.typ.IsND() {
		s := v.comps[0].Shape()
		return s[len(s)-1]
	}
	return len(v.comps)
}

// Component returns a component by name.
func (v *Vector) Component(name string) (quantity.Quantity, bool) {
	_, i, ok := v.typ.Field(name)
	if !ok {
		return quantity.Quantity{}, false
	}
	return v.comps[i], true
}

// MustComponent is Component that panics when the name is not a field.
func (v *Vector) MustComponent(name string) quantity.Quantity {
	q, ok := v.Component(name)
	if !ok {
		panic(fmt.Sprintf("vector: %s has no component %q", v.typ, name))
	}
	return q
}

// Components returns the components and attributes keyed by name.
func (v *Vector) Components() Components {
	out := make(Components, len(v.comps)+len(v.attrs))
	for i, f := range v.typ.fields {
		out[f.Name] = v.comps[i]
	}
	for k, q := range v.attrs {
		out[k] = q
	}
	return out
}

// Attr returns an attribute such as the focal length "Delta".
func (v *Vector) Attr(name string) (quantity.Quantity, bool) {
	q, ok := v.attrs[name]
	return q, ok
}

// Attrs returns a copy of the attributes.
func (v *Vector) Attrs() Components {
	out := make(Components, len(v.attrs))
	for k, q := range v.attrs {
		out[k] = q
	}
	return out
}

// With returns a copy of v with one component or attribute replaced.
func (v *Vector) With(name string, q quantity.Quantity) (*Vector, error) {
	comps := v.Components()
	comps[name] = q
	return New(v.typ, comps)
}

// BroadcastTo materialises v at a larger batch shape.
func (v *Vector) BroadcastTo(shape []int) (*Vector, error) {
	if quantity.EqualShape(shape, v.shape) {
		return v, nil
	}
	out := &Vector{typ: v.typ, comps: make([]quantity.Quantity, len(v.comps)), attrs: v.attrs, shape: append([]int{}, shape...)}
	target := shape
	if v.typ.IsND() {
		target = append(append([]int{}, shape...), v.Features())
	}
	for i, q := range v.comps {
		if v.typ.IsND() {
			// lift the feature axis so batch broadcasting never touches it
			var err error
			if q, err = liftFeatures(q, len(shape)); err != nil {
				return nil, err
			}
		}
		b, err := q.BroadcastTo(target)
		if err != nil {
			return nil, &vecerr.ShapeError{Shapes: [][]int{v.Shape(), shape}}
		}
		out.comps[i] = b
	}
	return out, nil
}

func liftFeatures(q quantity.Quantity, rank int) (quantity.Quantity, error) {
	s := q.Shape()
	batch := s[:len(s)-1]
	if len(batch) >= rank {
		return q, nil
	}
	lifted := make([]int, 0, rank+1)
	for i := 0; i < rank-len(batch); i++ {
		lifted = append(lifted, 1)
	}
	lifted = append(append(lifted, batch...), s[len(s)-1])
	return q.Reshape(lifted)
}

// Neg negates every component. Curvilinear positions cannot be negated
// componentwise; route them through their Cartesian type instead.
func (v *Vector) Neg() (*Vector, error) { return v.Scale(-1) }

// Scale multiplies every component by f. Like Neg it is only defined where
// the components form a linear space: Cartesian positions and all
// derivatives.
func (v *Vector) Scale(f float64) (*Vector, error) {
	if v.typ.kind == Position && !v.typ.IsCartesian() {
		return nil, &vecerr.UnsupportedConversionError{
			From: v.typ.String(), To: v.typ.String(),
			Reason: "componentwise arithmetic on a curvilinear position; convert to Cartesian first",
		}
	}
	comps := make(Components, len(v.comps))
	for i, fl := range v.typ.fields {
		comps[fl.Name] = v.comps[i].Scale(f)
	}
	for k, q := range v.attrs {
		comps[k] = q
	}
	return New(v.typ, comps)
}

// Norm returns the geometric magnitude of v. Curvilinear derivatives need a
// position for this and report ErrUnsupportedConversion.
func (v *Vector) Norm() (quantity.Quantity, error) {
	if v.typ.norm == nil {
		return quantity.Quantity{}, &vecerr.UnsupportedConversionError{
			From: v.typ.String(), To: "norm",
			Reason: "the norm depends on the position; convert to Cartesian first",
		}
	}
	return v.typ.norm(v)
}

// ToArray stacks the components along a trailing axis. All components must
// share a physical type, which holds for the Cartesian family.
func (v *Vector) ToArray() (quantity.Quantity, error) {
	if v.typ.IsND() {
		return v.comps[0], nil
	}
	return quantity.Stack(v.comps...)
}

// Columns returns one slice per scalar slot holding that slot's values for
// every batch element, expressed in units. For the N-dimensional family a
// single unit may be given for all features.
func (v *Vector) Columns(units []quantity.Unit) ([][]float64, error) {
	if v.typ.IsND() {
		q := v.comps[0]
		u := q.Unit()
		if len(units) > 0 {
			u = units[0]
		}
		vals, err := q.Value(u)
		if err != nil {
			return nil, err
		}
		f := v.Features()
		n := v.Size()
		cols := make([][]float64, f)
		for j := range cols {
			cols[j] = make([]float64, n)
			for i := 0; i < n; i++ {
				cols[j][i] = vals[i*f+j]
			}
		}
		return cols, nil
	}

	if len(units) != len(v.comps) {
		return nil, fmt.Errorf("%s: %d units for %d components", v.typ, len(units), len(v.comps))
	}
	cols := make([][]float64, len(v.comps))
	for j, q := range v.comps {
		vals, err := q.Value(units[j])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", v.typ, v.typ.fields[j].Name, err)
		}
		cols[j] = vals
	}
	return cols, nil
}

// FromColumns is the inverse of Columns: it assembles and validates a vector
// of type t from per-slot values.
func FromColumns(t *Type, cols [][]float64, units []quantity.Unit, shape []int, attrs Components) (*Vector, error) {
	comps := Components{}
	for k, q := range attrs {
		comps[k] = q
	}
	n := quantity.Size(shape)

	if t.IsND() {
		f := len(cols)
		vals := make([]float64, n*f)
		for j, col := range cols {
			factor := 1.0
			if j < len(units) && j > 0 {
				var err error
				if factor, err = units[j].Factor(units[0]); err != nil {
					return nil, err
				}
			}
			for i := 0; i < n; i++ {
				vals[i*f+j] = col[i] * factor
			}
		}
		q, err := quantity.New(vals, append(append([]int{}, shape...), f), units[0])
		if err != nil {
			return nil, err
		}
		comps[t.fields[0].Name] = q
		return New(t, comps)
	}

	if len(cols) != len(t.fields) || len(units) != len(t.fields) {
		return nil, &vecerr.ShapeError{
			Reason: fmt.Sprintf("%s takes %d components, got %d", t, len(t.fields), len(cols)),
		}
	}
	for j, f := range t.fields {
		q, err := quantity.New(cols[j], shape, units[j])
		if err != nil {
			return nil, err
		}
		comps[f.Name] = q
	}
	return New(t, comps)
}

// String renders v as "<Type (f1[u1], f2[u2])\n    [values]>".
func (v *Vector) String() string {
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(v.typ.String())
	sb.WriteString(" (")
	for i, f := range v.typ.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s[%s]", f.Name, v.comps[i].Unit())
	}
	sb.WriteString(")")

	if len(v.attrs) > 0 {
		keys := make([]string, 0, len(v.attrs))
		for k := range v.attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%s", k, v.attrs[k])
		}
	}

	units := make([]quantity.Unit, len(v.comps))
	for i, q := range v.comps {
		units[i] = q.Unit()
	}
	cols, err := v.Columns(units)
	if err != nil {
		return sb.String() + ">"
	}
	for i := 0; i < v.Size(); i++ {
		sb.WriteString("\n    [")
		for j := range cols {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%g", cols[j][i])
		}
		sb.WriteString("]")
	}
	sb.WriteString(">")
	return sb.String()
}
