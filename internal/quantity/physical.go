package quantity

import (
	"fmt"

	"gonum.org/v1/gonum/unit"
)

// PhysicalType is a named set of physical dimensions, e.g. "speed".
type PhysicalType struct {
	name string
	dims unit.Dimensions
	any  bool
}

func newPhysicalType(name string, dims unit.Dimensions) PhysicalType {
	p := PhysicalType{name: name, dims: dims}
	physicalTypes = append(physicalTypes, p)
	return p
}

var physicalTypes []PhysicalType

// Physical types used by the vector catalog.
var (
	Unitless            = newPhysicalType("dimensionless", unit.Dimensions{})
	Length              = newPhysicalType("length", unit.Dimensions{unit.LengthDim: 1})
	Area                = newPhysicalType("area", unit.Dimensions{unit.LengthDim: 2})
	Angle               = newPhysicalType("angle", unit.Dimensions{unit.AngleDim: 1})
	Time                = newPhysicalType("time", unit.Dimensions{unit.TimeDim: 1})
	Speed               = newPhysicalType("speed", unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -1})
	AngularSpeed        = newPhysicalType("angular speed", unit.Dimensions{unit.AngleDim: 1, unit.TimeDim: -1})
	Diffusivity         = newPhysicalType("diffusivity", unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -1})
	Acceleration        = newPhysicalType("acceleration", unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -2})
	AngularAcceleration = newPhysicalType("angular acceleration", unit.Dimensions{unit.AngleDim: 1, unit.TimeDim: -2})
	SpecificEnergy      = newPhysicalType("specific energy", unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2})

	// Any accepts every unit.
	Any = PhysicalType{name: "any", any: true}
)

// Unit implements unit.Uniter so that a PhysicalType can be compared with
// unit.DimensionsMatch.
func (p PhysicalType) Unit() *unit.Unit { return unit.New(1, p.dims) }

// Dimensions returns a copy of the dimensions of p.
func (p PhysicalType) Dimensions() unit.Dimensions { return p.Unit().Dimensions() }

func (p PhysicalType) String() string { return p.name }

// IsAny reports whether p accepts every unit.
func (p PhysicalType) IsAny() bool { return p.any }

// Per divides p by time to the power n: Length.Per(1) is Speed.
func (p PhysicalType) Per(n int) PhysicalType {
	if p.any {
		return p
	}
	d := p.Dimensions()
	d[unit.TimeDim] -= n
	if d[unit.TimeDim] == 0 {
		delete(d, unit.TimeDim)
	}
	return physicalTypeOf(d)
}

// Power returns the exponent of dim in p.
func (p PhysicalType) Power(dim unit.Dimension) int { return p.dims[dim] }

func physicalTypeOf(d unit.Dimensions) PhysicalType {
	probe := unit.New(1, d)
	for _, p := range physicalTypes {
		if unit.DimensionsMatch(probe, p) {
			return p
		}
	}
	return PhysicalType{name: fmt.Sprintf("[%s]", d), dims: probe.Dimensions()}
}
