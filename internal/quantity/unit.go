package quantity

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/unit"

	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// atom is a named unit with a fixed scale to its SI base.
type atom struct {
	symbol string
	scale  float64
	dim    unit.Dimension
}

var atoms = map[string]*atom{}

func defineAtom(symbol string, scale float64, dim unit.Dimension) Unit {
	a := &atom{symbol: symbol, scale: scale, dim: dim}
	atoms[symbol] = a
	return Unit{terms: []term{{a: a, power: 1}}}
}

const julianYear = 365.25 * 86400

// Predefined units. Angles use the gonum angle dimension so that radians and
// degrees are interconvertible but never silently mixed with lengths.
var (
	Dimensionless = Unit{}

	Meter      = defineAtom("m", 1, unit.LengthDim)
	Kilometer  = defineAtom("km", 1e3, unit.LengthDim)
	Centimeter = defineAtom("cm", 1e-2, unit.LengthDim)
	Millimeter = defineAtom("mm", 1e-3, unit.LengthDim)
	AU         = defineAtom("AU", 1.495978707e11, unit.LengthDim)
	Parsec     = defineAtom("pc", 3.0856775814913673e16, unit.LengthDim)
	Kiloparsec = defineAtom("kpc", 3.0856775814913673e19, unit.LengthDim)
	Megaparsec = defineAtom("Mpc", 3.0856775814913673e22, unit.LengthDim)

	Second      = defineAtom("s", 1, unit.TimeDim)
	Millisecond = defineAtom("ms", 1e-3, unit.TimeDim)
	Minute      = defineAtom("min", 60, unit.TimeDim)
	Hour        = defineAtom("h", 3600, unit.TimeDim)
	Day         = defineAtom("d", 86400, unit.TimeDim)
	Year        = defineAtom("yr", julianYear, unit.TimeDim)
	Myr         = defineAtom("Myr", 1e6*julianYear, unit.TimeDim)
	Gyr         = defineAtom("Gyr", 1e9*julianYear, unit.TimeDim)

	Radian         = defineAtom("rad", 1, unit.AngleDim)
	Degree         = defineAtom("deg", math.Pi/180, unit.AngleDim)
	Arcminute      = defineAtom("arcmin", math.Pi/10800, unit.AngleDim)
	Arcsecond      = defineAtom("arcsec", math.Pi/648000, unit.AngleDim)
	Milliarcsecond = defineAtom("mas", math.Pi/648000000, unit.AngleDim)

	Kilogram = defineAtom("kg", 1, unit.MassDim)
)

func init() {
	atoms["au"] = atoms["AU"]
	atoms["day"] = atoms["d"]
	atoms["year"] = atoms["yr"]
}

type term struct {
	a     *atom
	power int
}

// Unit is an immutable product of named units raised to integer powers.
// The zero value is dimensionless.
type Unit struct {
	terms []term
}

// Parse reads unit strings such as "km", "km / s", "km/s2", "kpc^2", "s^-1"
// or "km s-1".
func Parse(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("(", " ", ")", " ").Replace(s)
	if s == "" || s == "1" || s == "dimensionless" {
		return Dimensionless, nil
	}

	var out Unit
	for i, segment := range strings.Split(s, "/") {
		sign := 1
		if i > 0 {
			sign = -1
		}
		for _, tok := range splitProducts(strings.Fields(segment)) {
			if tok == "1" {
				continue
			}
			t, err := parseTerm(tok)
			if err != nil {
				return Unit{}, fmt.Errorf("parse unit %q: %w", s, err)
			}
			t.power *= sign
			out = out.Mul(Unit{terms: []term{t}})
		}
	}
	return out, nil
}

// MustParse is Parse that panics on error.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// splitProducts splits "km*s" style tokens while keeping "s**2" intact.
func splitProducts(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		tok = strings.ReplaceAll(tok, "**", "^")
		for _, p := range strings.Split(tok, "*") {
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseTerm(tok string) (term, error) {
	end := 0
	for end < len(tok) && unicode.IsLetter(rune(tok[end])) {
		end++
	}
	symbol := tok[:end]
	a, ok := atoms[symbol]
	if !ok {
		return term{}, fmt.Errorf("unknown unit %q", symbol)
	}
	rest := strings.TrimPrefix(tok[end:], "^")
	if rest == "" {
		return term{a: a, power: 1}, nil
	}
	p, err := strconv.Atoi(rest)
	if err != nil {
		return term{}, fmt.Errorf("bad power %q in %q", rest, tok)
	}
	return term{a: a, power: p}, nil
}

// String renders the unit in the astropy style, e.g. "km / s2".
func (u Unit) String() string {
	var num, den []string
	for _, t := range u.terms {
		switch {
		case t.power == 1:
			num = append(num, t.a.symbol)
		case t.power > 1:
			num = append(num, t.a.symbol+strconv.Itoa(t.power))
		case t.power == -1:
			den = append(den, t.a.symbol)
		default:
			den = append(den, t.a.symbol+strconv.Itoa(-t.power))
		}
	}
	switch {
	case len(den) == 0:
		return strings.Join(num, " ")
	case len(num) == 0:
		return "1 / " + strings.Join(den, " ")
	}
	return strings.Join(num, " ") + " / " + strings.Join(den, " ")
}

// IsDimensionless reports whether u carries no physical dimension.
func (u Unit) IsDimensionless() bool {
	return len(u.Dimensions()) == 0
}

// si expresses u as a gonum unit carrying its SI scale and dimensions.
func (u Unit) si() *unit.Unit {
	v := unit.New(1, unit.Dimensions{})
	for _, t := range u.terms {
		base := unit.New(t.a.scale, unit.Dimensions{t.a.dim: 1})
		for i := 0; i < t.power; i++ {
			v.Mul(base)
		}
		for i := 0; i > t.power; i-- {
			v.Div(base)
		}
	}
	return v
}

// Unit implements unit.Uniter.
func (u Unit) Unit() *unit.Unit { return u.si() }

// Scale is the factor converting a value in u to SI base units.
func (u Unit) Scale() float64 { return u.si().Value() }

// Dimensions returns the physical dimensions of u.
func (u Unit) Dimensions() unit.Dimensions { return u.si().Dimensions() }

// IsConvertible reports whether values in u can be expressed in o.
func (u Unit) IsConvertible(o Unit) bool {
	return unit.DimensionsMatch(u, o)
}

// Factor returns f such that a value v in u equals v*f in to.
func (u Unit) Factor(to Unit) (float64, error) {
	if !u.IsConvertible(to) {
		return 0, &vecerr.UnitError{Want: to.String(), Got: u.String()}
	}
	return u.Scale() / to.Scale(), nil
}

// Equal reports whether u and o are composed of the same terms.
func (u Unit) Equal(o Unit) bool {
	if len(u.terms) != len(o.terms) {
		return false
	}
	for _, t := range u.terms {
		if o.power(t.a) != t.power {
			return false
		}
	}
	return true
}

func (u Unit) power(a *atom) int {
	for _, t := range u.terms {
		if t.a == a {
			return t.power
		}
	}
	return 0
}

// Mul returns u*o. Identical named units combine their powers.
func (u Unit) Mul(o Unit) Unit {
	out := Unit{terms: make([]term, 0, len(u.terms)+len(o.terms))}
	out.terms = append(out.terms, u.terms...)
	for _, t := range o.terms {
		merged := false
		for i := range out.terms {
			if out.terms[i].a == t.a {
				out.terms[i].power += t.power
				merged = true
				break
			}
		}
		if !merged {
			out.terms = append(out.terms, t)
		}
	}
	return out.compact()
}

// Div returns u/o.
func (u Unit) Div(o Unit) Unit { return u.Mul(o.Pow(-1)) }

// Pow returns u raised to n.
func (u Unit) Pow(n int) Unit {
	out := Unit{terms: make([]term, len(u.terms))}
	for i, t := range u.terms {
		out.terms[i] = term{a: t.a, power: t.power * n}
	}
	return out.compact()
}

// Sqrt halves every power; it fails when a power is odd.
func (u Unit) Sqrt() (Unit, error) {
	out := Unit{terms: make([]term, len(u.terms))}
	for i, t := range u.terms {
		if t.power%2 != 0 {
			return Unit{}, fmt.Errorf("unit %q has no integer square root", u)
		}
		out.terms[i] = term{a: t.a, power: t.power / 2}
	}
	return out, nil
}

// Simplify folds every named unit into the first named unit of the same
// dimension, e.g. "km mas / rad yr" becomes "km / yr". The returned factor
// converts values in u to the simplified unit.
func (u Unit) Simplify() (Unit, float64) {
	factor := 1.0
	lead := map[unit.Dimension]*atom{}
	out := Unit{}
	for _, t := range u.terms {
		a, ok := lead[t.a.dim]
		if !ok {
			lead[t.a.dim] = t.a
			a = t.a
		}
		factor *= math.Pow(t.a.scale/a.scale, float64(t.power))
		out = out.Mul(Unit{terms: []term{{a: a, power: t.power}}})
	}
	return out, factor
}

func (u Unit) compact() Unit {
	kept := u.terms[:0]
	for _, t := range u.terms {
		if t.power != 0 {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return Unit{}
	}
	return Unit{terms: kept}
}

// Is reports whether u represents the physical type p.
func (u Unit) Is(p PhysicalType) bool {
	if p.any {
		return true
	}
	return unit.DimensionsMatch(u, p)
}

// PhysicalType names the physical type of u.
func (u Unit) PhysicalType() PhysicalType {
	return physicalTypeOf(u.Dimensions())
}

// Symbols lists the recognised unit symbols.
func Symbols() []string {
	out := make([]string, 0, len(atoms))
	for s := range atoms {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
