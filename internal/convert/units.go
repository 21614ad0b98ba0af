package convert

import (
	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Rules work on plain numbers in a fixed set of working units: lengths in a
// reference length L taken from the input, areas in L², angles in radians.

// referenceLength picks L from the first length-like component of a
// position.
func referenceLength(v *vector.Vector) quantity.Unit {
	for _, f := range v.Type().Fields() {
		q := v.MustComponent(f.Name)
		switch f.Type.String() {
		case quantity.Length.String():
			return q.Unit()
		case quantity.Area.String():
			if u, err := q.Unit().Sqrt(); err == nil {
				return u
			}
		}
	}
	return quantity.Meter
}

// slotUnits returns the working unit of every slot of a position type.
func slotUnits(t *vector.Type, length quantity.Unit) ([]quantity.Unit, error) {
	if t.IsND() {
		return []quantity.Unit{length}, nil
	}
	fields := t.Fields()
	out := make([]quantity.Unit, len(fields))
	for i, f := range fields {
		switch f.Type.String() {
		case quantity.Length.String():
			out[i] = length
		case quantity.Area.String():
			out[i] = length.Pow(2)
		case quantity.Angle.String():
			out[i] = quantity.Radian
		default:
			return nil, &vecerr.UnsupportedConversionError{
				From: t.String(), To: t.String(),
				Reason: "component " + f.Name + " has no working unit",
			}
		}
	}
	return out, nil
}

// inWorking expresses a scalar quantity in u, e.g. a focal length in L.
func inWorking(q quantity.Quantity, u quantity.Unit) (float64, error) {
	vals, err := q.Value(u)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}
