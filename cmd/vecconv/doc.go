// Command vecconv converts coordinate vectors from the command line.
//
// Usage:
//
//	vecconv types
//	vecconv convert -f request.yaml
//	vecconv convert -f - --lossy=error < request.json
//	vecconv jacobian -f jacobian.yaml -o yaml
//
// A convert request names a target type and the vector to convert; velocity
// and acceleration requests also carry the position (and, for
// accelerations, the velocity) they are attached to.
package main
