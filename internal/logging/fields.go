package logging

import "go.uber.org/zap"

// Field keys shared by the engine and the API so log queries stay stable.
const (
	KeyFrom      = "from"
	KeyTo        = "to"
	KeyPath      = "path"
	KeyDropped   = "dropped"
	KeyJacobians = "jacobians"
	KeyRequestID = "request_id"
)

// Conversion tags a line with the source and target type ids.
func Conversion(from, to string) []zap.Field {
	return []zap.Field{zap.String(KeyFrom, from), zap.String(KeyTo, to)}
}

// Path renders the hops of a resolved conversion.
func Path[T ~string](hops []T) zap.Field {
	out := make([]string, len(hops))
	for i, h := range hops {
		out[i] = string(h)
	}
	return zap.Strings(KeyPath, out)
}

// Dropped lists the components a lossy conversion discarded.
func Dropped(names []string) zap.Field { return zap.Strings(KeyDropped, names) }

// Jacobians records how many per-element Jacobians a transform evaluated.
func Jacobians(n int) zap.Field { return zap.Int(KeyJacobians, n) }

// RequestID tags a line with the API request id.
func RequestID(id string) zap.Field { return zap.String(KeyRequestID, id) }
