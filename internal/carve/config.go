package carve

import "math"

// Config holds the carve tolerances. They are tuned to coordinates around unit
// scale; models in other units should scale Epsilon, StashTolerance,
// StashOffset and MergeEpsilon together.
type Config struct {
	// Epsilon is the distance below which two points, or a point and a plane,
	// are treated as coincident.
	Epsilon float64 `yaml:"epsilon"`
	// StashTolerance is how close a prism face or corner has to be to a hull
	// triangle edge before it is nudged off it.
	StashTolerance float64 `yaml:"stash_tolerance"`
	// StashOffset is how far it gets nudged.
	StashOffset float64 `yaml:"stash_offset"`
	// MergeEpsilon is the vertex store's proximity for reusing a vertex.
	MergeEpsilon float64 `yaml:"merge_epsilon"`
	// EarAngle is the preferred ear tip angle, in radians.
	EarAngle float64 `yaml:"ear_angle"`
	// CollinearCos drops a face polygon or marking outline point when the
	// directions of its two edges have a dot product above it. Loops made
	// during a cut are never merged.
	CollinearCos float64 `yaml:"collinear_cos"`
	// SliverCos rejects ears with any corner whose cosine is above it.
	SliverCos float64 `yaml:"sliver_cos"`
}

func DefaultConfig() Config {
	return Config{
		Epsilon:        1e-7,
		StashTolerance: 1e-6,
		StashOffset:    1e-3,
		MergeEpsilon:   1e-7,
		EarAngle:       math.Pi / 3,
		CollinearCos:   math.Cos(0.08 * math.Pi / 180),
		SliverCos:      0.99999999,
	}
}

// WithDefaults fills any zero field from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	for _, f := range []struct {
		v   *float64
		def float64
	}{
		{&c.Epsilon, d.Epsilon},
		{&c.StashTolerance, d.StashTolerance},
		{&c.StashOffset, d.StashOffset},
		{&c.MergeEpsilon, d.MergeEpsilon},
		{&c.EarAngle, d.EarAngle},
		{&c.CollinearCos, d.CollinearCos},
		{&c.SliverCos, d.SliverCos},
	} {
		if *f.v == 0 {
			*f.v = f.def
		}
	}
	return c
}
