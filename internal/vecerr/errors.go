// Package vecerr defines the error taxonomy shared by vector construction and
// conversion.
//
// Every failure is reported through a typed error that matches one of the
// sentinel values with errors.Is, so callers can branch on the category
// without caring which package raised it:
//
//	if errors.Is(err, vecerr.ErrDomain) { ... }
//
// LossyConversionWarning is the only non-fatal signal. Whether it is logged,
// ignored, or returned as an error is decided by a LossyPolicy.
package vecerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel categories.
var (
	// ErrDomain indicates a component outside its valid domain.
	ErrDomain = errors.New("vector: component out of domain")

	// ErrUnit indicates a component with an incompatible physical dimension.
	ErrUnit = errors.New("vector: incompatible unit")

	// ErrShape indicates batch shapes that do not broadcast or a feature count mismatch.
	ErrShape = errors.New("vector: shape mismatch")

	// ErrUnsupportedConversion indicates there is no path between two types.
	ErrUnsupportedConversion = errors.New("vector: unsupported conversion")

	// ErrLossyConversion is matched by LossyConversionWarning.
	ErrLossyConversion = errors.New("vector: lossy conversion")

	// ErrMissingComponent indicates a required component or context value was not supplied.
	ErrMissingComponent = errors.New("vector: missing component")

	// ErrInvalidComponent indicates a component that the target type does not declare.
	ErrInvalidComponent = errors.New("vector: invalid component")
)

// DomainError reports a validator violation at construction.
type DomainError struct {
	Type       string
	Field      string
	Constraint string
}

func (e *DomainError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Field, e.Constraint)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// UnitError reports a unit that cannot represent the expected physical type.
type UnitError struct {
	Field string
	Want  string
	Got   string
}

func (e *UnitError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unit %q is not convertible to %s", e.Got, e.Want)
	}
	return fmt.Sprintf("%s: unit %q is not a %s", e.Field, e.Got, e.Want)
}

func (e *UnitError) Is(target error) bool { return target == ErrUnit }

// ShapeError reports incompatible batch shapes.
type ShapeError struct {
	Shapes [][]int
	Reason string
}

func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = FormatShape(s)
	}
	if e.Reason == "" {
		return fmt.Sprintf("shapes %s are not broadcast-compatible", strings.Join(parts, ", "))
	}
	if len(parts) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(parts, ", "))
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// UnsupportedConversionError reports a missing conversion path.
type UnsupportedConversionError struct {
	From   string
	To     string
	Reason string
}

func (e *UnsupportedConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UnsupportedConversionError) Is(target error) bool {
	return target == ErrUnsupportedConversion
}

// MissingComponentError names a component that had to be supplied.
type MissingComponentError struct {
	Type      string
	Component string
}

func (e *MissingComponentError) Error() string {
	return fmt.Sprintf("%s: missing component %q", e.Type, e.Component)
}

func (e *MissingComponentError) Is(target error) bool { return target == ErrMissingComponent }

// LossyConversionWarning signals that a conversion drops components.
type LossyConversionWarning struct {
	From    string
	To      string
	Dropped []string
}

func (w *LossyConversionWarning) Error() string {
	if len(w.Dropped) == 0 {
		return fmt.Sprintf("irreversible dimension change %s -> %s", w.From, w.To)
	}
	return fmt.Sprintf("irreversible dimension change %s -> %s drops %s",
		w.From, w.To, strings.Join(w.Dropped, ", "))
}

func (w *LossyConversionWarning) Is(target error) bool { return target == ErrLossyConversion }

// FormatShape renders a batch shape the way numpy prints tuples.
func FormatShape(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", shape[0])
	}
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = fmt.Sprint(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
