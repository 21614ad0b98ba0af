// Package codec is the document form of vectors and conversion requests,
// shared by the HTTP API and the command line.
//
// A vector document names its catalog type and gives each component as a
// quantity document:
//
//	type: SphericalPos
//	components:
//	  r:     {value: [1, 2], unit: kpc}
//	  theta: {value: [0.5, 1], unit: rad}
//	  phi:   {value: [0, 3], unit: rad}
//
// JSON is read and written with sonic, YAML with goccy/go-yaml.
package codec
