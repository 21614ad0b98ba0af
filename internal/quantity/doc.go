// Package quantity provides unit-tagged dense arrays.
//
// Units are products of named atoms (km, s, deg, mas, ...) with integer
// powers. Dimensional analysis is delegated to gonum.org/v1/gonum/unit: every
// Unit implements unit.Uniter, so compatibility checks are plain
// unit.DimensionsMatch calls.
//
// A Quantity is immutable. Arithmetic broadcasts shapes with numpy rules and
// returns new values:
//
//	r := quantity.Vec("km", 1, 2, 3)
//	m, _ := r.To(quantity.Meter)
//	fmt.Println(m) // [1000 2000 3000] m
package quantity
