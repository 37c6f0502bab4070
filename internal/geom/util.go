package geom

import "math"

// Tolerance is the default coincidence distance. Source coordinates are a few
// units across, so this sits well below anything a modeler drew on purpose.
const Tolerance = 1e-7

// To compensate for imprecision in floats, equality is tolerance based.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}
