package codec

import (
	"fmt"
	"sort"

	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Quantity is the document form of a quantity. Without a shape a single
// value is a scalar and several values form a 1-D array.
type Quantity struct {
	Value []float64 `json:"value" yaml:"value"`
	Shape []int     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Unit  string    `json:"unit" yaml:"unit"`
}

// Decode builds the quantity.
func (q Quantity) Decode() (quantity.Quantity, error) {
	u, err := quantity.Parse(q.Unit)
	if err != nil {
		return quantity.Quantity{}, err
	}
	shape := q.Shape
	if shape == nil && len(q.Value) != 1 {
		shape = []int{len(q.Value)}
	}
	return quantity.New(q.Value, shape, u)
}

// EncodeQuantity is the inverse of Quantity.Decode.
func EncodeQuantity(q quantity.Quantity) Quantity {
	return Quantity{Value: q.Values(), Shape: q.Shape(), Unit: q.Unit().String()}
}

// Vector is the document form of a vector. Array may replace Type and
// Components: it is then read as Cartesian components along its last axis.
type Vector struct {
	Type       string              `json:"type,omitempty" yaml:"type,omitempty"`
	Components map[string]Quantity `json:"components,omitempty" yaml:"components,omitempty"`
	Attrs      map[string]Quantity `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Array      *Quantity           `json:"array,omitempty" yaml:"array,omitempty"`
}

// Source decodes the document into something the converter accepts.
func (d *Vector) Source() (vector.Source, error) {
	if d == nil {
		return nil, nil
	}
	if d.Type == "" {
		if d.Array == nil {
			return nil, fmt.Errorf("vector document needs a type or an array")
		}
		q, err := d.Array.Decode()
		if err != nil {
			return nil, fmt.Errorf("array: %w", err)
		}
		return vector.Raw(q), nil
	}
	return d.Decode()
}

// Decode builds the typed vector.
func (d *Vector) Decode() (*vector.Vector, error) {
	t, err := LookupType(d.Type)
	if err != nil {
		return nil, err
	}
	comps := make(vector.Components, len(d.Components)+len(d.Attrs))
	for _, src := range []map[string]Quantity{d.Components, d.Attrs} {
		for name, qd := range src {
			q, err := qd.Decode()
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, name, err)
			}
			comps[name] = q
		}
	}
	return vector.New(t, comps)
}

// EncodeVector is the inverse of Vector.Decode.
func EncodeVector(v *vector.Vector) Vector {
	d := Vector{Type: v.Type().String(), Components: map[string]Quantity{}}
	for _, name := range v.Type().FieldNames() {
		d.Components[name] = EncodeQuantity(v.MustComponent(name))
	}
	if attrs := v.Attrs(); len(attrs) > 0 {
		d.Attrs = make(map[string]Quantity, len(attrs))
		for name, q := range attrs {
			d.Attrs[name] = EncodeQuantity(q)
		}
	}
	return d
}

// LookupType resolves a catalog id.
func LookupType(name string) (*vector.Type, error) {
	t, ok := vector.Lookup(vector.TypeID(name))
	if !ok {
		return nil, fmt.Errorf("%w: unknown vector type %q", vecerr.ErrUnsupportedConversion, name)
	}
	return t, nil
}

// TypeInfo describes a catalog entry.
type TypeInfo struct {
	ID           string      `json:"id" yaml:"id"`
	Kind         string      `json:"kind" yaml:"kind"`
	Dim          int         `json:"dim" yaml:"dim"`
	Chart        string      `json:"chart" yaml:"chart"`
	Fields       []FieldInfo `json:"fields" yaml:"fields"`
	Attrs        []FieldInfo `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Cartesian    string      `json:"cartesian,omitempty" yaml:"cartesian,omitempty"`
	Differential string      `json:"differential,omitempty" yaml:"differential,omitempty"`
	Integral     string      `json:"integral,omitempty" yaml:"integral,omitempty"`
}

// FieldInfo describes one component.
type FieldInfo struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"physical_type" yaml:"physical_type"`
}

func typeName(t *vector.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func fieldInfos(fs []vector.Field) []FieldInfo {
	out := make([]FieldInfo, len(fs))
	for i, f := range fs {
		out[i] = FieldInfo{Name: f.Name, Type: f.Type.String()}
	}
	return out
}

// Describe lists the catalog with triad links, ordered by id.
func Describe() []TypeInfo {
	types := vector.Types()
	out := make([]TypeInfo, len(types))
	for i, t := range types {
		out[i] = TypeInfo{
			ID:           t.String(),
			Kind:         t.Kind().String(),
			Dim:          t.Dim(),
			Chart:        t.Chart(),
			Fields:       fieldInfos(t.Fields()),
			Attrs:        fieldInfos(t.Attrs()),
			Cartesian:    typeName(t.Cartesian()),
			Differential: typeName(t.Differential()),
			Integral:     typeName(t.Integral()),
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
