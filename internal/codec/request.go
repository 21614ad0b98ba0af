package codec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/GalacticDynamics/vector/internal/convert"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Context carries the per-call values a conversion may need.
type Context struct {
	Delta      *Quantity           `json:"delta,omitempty" yaml:"delta,omitempty"`
	Components map[string]Quantity `json:"components,omitempty" yaml:"components,omitempty"`
	// Lossy overrides the converter's lossy policy for this call.
	Lossy string `json:"lossy,omitempty" yaml:"lossy,omitempty"`
}

func (c *Context) callOptions() ([]convert.CallOption, error) {
	if c == nil {
		return nil, nil
	}
	var opts []convert.CallOption
	if c.Delta != nil {
		d, err := c.Delta.Decode()
		if err != nil {
			return nil, fmt.Errorf("context.delta: %w", err)
		}
		opts = append(opts, convert.WithFocalLength(d))
	}
	for name, qd := range c.Components {
		q, err := qd.Decode()
		if err != nil {
			return nil, fmt.Errorf("context.components.%s: %w", name, err)
		}
		opts = append(opts, convert.WithComponent(name, q))
	}
	return opts, nil
}

// ConvertRequest asks for vector to be re-expressed as target. Derivatives
// need position, and accelerations also velocity.
type ConvertRequest struct {
	Target   string   `json:"target" yaml:"target"`
	Vector   Vector   `json:"vector" yaml:"vector"`
	Velocity *Vector  `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Position *Vector  `json:"position,omitempty" yaml:"position,omitempty"`
	Context  *Context `json:"context,omitempty" yaml:"context,omitempty"`
}

// ConvertResponse is the converted vector plus any lossy warnings.
type ConvertResponse struct {
	Vector   Vector   `json:"vector" yaml:"vector"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// Execute runs a conversion request.
func Execute(conv *convert.Converter, req *ConvertRequest) (*ConvertResponse, error) {
	target, err := LookupType(req.Target)
	if err != nil {
		return nil, err
	}
	if req.Context != nil && req.Context.Lossy != "" {
		p, err := vecerr.ParseLossyPolicy(req.Context.Lossy)
		if err != nil {
			return nil, err
		}
		conv = conv.With(convert.WithLossyPolicy(p))
	}
	opts, err := req.Context.callOptions()
	if err != nil {
		return nil, err
	}
	var collected convert.Warnings
	opts = append(opts, convert.CollectWarnings(&collected))

	src, err := req.Vector.Source()
	if err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}
	cur, err := src.AsKind(target.Kind())
	if err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}

	var out *vector.Vector
	if target.Kind() == vector.Position {
		out, err = conv.Position(cur, target, opts...)
	} else {
		var vel, pos vector.Source
		if vel, err = req.Velocity.Source(); err != nil {
			return nil, fmt.Errorf("velocity: %w", err)
		}
		if pos, err = req.Position.Source(); err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		out, err = conv.Derivative(target, cur, vel, pos, opts...)
	}
	if err != nil {
		return nil, err
	}

	resp := &ConvertResponse{Vector: EncodeVector(out), Warnings: []string{}}
	for _, w := range collected.List() {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp, nil
}

// JacobianRequest asks for the Jacobian of the position map between two
// charts at every element of position.
type JacobianRequest struct {
	From     string   `json:"from" yaml:"from"`
	To       string   `json:"to" yaml:"to"`
	Position Vector   `json:"position" yaml:"position"`
	Context  *Context `json:"context,omitempty" yaml:"context,omitempty"`
}

// JacobianResponse holds one row-major matrix per batch element. Entry
// (k, j) is in out_units[k] / in_units[j].
type JacobianResponse struct {
	From     string        `json:"from" yaml:"from"`
	To       string        `json:"to" yaml:"to"`
	Shape    []int         `json:"shape" yaml:"shape"`
	InUnits  []string      `json:"in_units" yaml:"in_units"`
	OutUnits []string      `json:"out_units" yaml:"out_units"`
	Matrices [][][]float64 `json:"matrices" yaml:"matrices"`
}

// Jacobian runs a Jacobian request.
func Jacobian(conv *convert.Converter, req *JacobianRequest) (*JacobianResponse, error) {
	from, err := LookupType(req.From)
	if err != nil {
		return nil, err
	}
	to, err := LookupType(req.To)
	if err != nil {
		return nil, err
	}
	opts, err := req.Context.callOptions()
	if err != nil {
		return nil, err
	}
	pos, err := req.Position.Source()
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}

	res, err := conv.Jacobian(from, to, pos, opts...)
	if err != nil {
		return nil, err
	}
	out := &JacobianResponse{
		From:     res.From.String(),
		To:       res.To.String(),
		Shape:    res.Shape,
		Matrices: make([][][]float64, len(res.Matrices)),
	}
	for _, u := range res.InUnits {
		out.InUnits = append(out.InUnits, u.String())
	}
	for _, u := range res.OutUnits {
		out.OutUnits = append(out.OutUnits, u.String())
	}
	for i, m := range res.Matrices {
		out.Matrices[i] = rows(m)
	}
	return out, nil
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
