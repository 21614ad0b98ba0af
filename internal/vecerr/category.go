package vecerr

import "errors"

var categories = []struct {
	err  error
	name string
}{
	{ErrDomain, "domain"},
	{ErrUnit, "unit"},
	{ErrShape, "shape"},
	{ErrUnsupportedConversion, "unsupported"},
	{ErrLossyConversion, "lossy"},
	{ErrMissingComponent, "missing_component"},
	{ErrInvalidComponent, "invalid_component"},
}

// Category names the sentinel err matches, or "internal" when it matches
// none. The names label metrics and API error bodies.
func Category(err error) string {
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.name
		}
	}
	return "internal"
}
