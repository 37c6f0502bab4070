// Package render draws carved faces for eyeballing results. It is a debugging
// aid, not a renderer: triangles are painted flat, seen straight down the
// face normal, with the marking patches over the hull.
package render

import (
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/hullcarve/internal/facemesh"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Padding around the face, in pixels.
const padding = 40

// Face draws fm at scale pixels per model unit.
func Face(fm facemesh.Result, scale float64) *gg.Context {
	meshes := []facemesh.Mesh{fm.Base, fm.Marking}
	var basis geom.Basis
	var points orb.MultiPoint
	for _, m := range meshes {
		if len(m.Positions) == 0 {
			continue
		}
		if points == nil {
			basis = geom.NewBasis(m.Normals[0], m.Positions[0])
		}
		for _, p := range m.Positions {
			q := basis.Project(p)
			points = append(points, orb.Point{q.X, q.Y})
		}
	}
	bound := orb.Bound{}
	if len(points) > 0 {
		bound = points.Bound()
	}

	width := int(scale*(bound.Right()-bound.Left())) + padding*2
	height := int(scale*(bound.Top()-bound.Bottom())) + padding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(padding, padding)
	c.Scale(scale, scale)
	c.Translate(-bound.Left(), -bound.Bottom())

	c.SetLineWidth(1)
	for _, m := range meshes {
		for i := 0; i < m.Triangles(); i++ {
			a, b, cc := m.Triangle(i)
			for k, p := range [3]geom.Point3{a, b, cc} {
				q := basis.Project(p)
				if k == 0 {
					c.MoveTo(q.X, q.Y)
				} else {
					c.LineTo(q.X, q.Y)
				}
			}
			c.ClosePath()
			c.SetColor(MaterialColor(m.Materials[i]))
			c.FillPreserve()
			c.SetRGBA(1, 1, 1, 0.6)
			c.Stroke()
		}
	}
	return c
}

// MaterialColor spreads material numbers around the hue circle by the golden
// ratio, so neighboring numbers get clearly different colors.
func MaterialColor(material int) color.RGBA {
	hue := math.Mod(float64(material)*0.618033988749895, 1)
	if hue < 0 {
		hue++
	}
	return hsv(hue, 0.6, 0.85)
}

func hsv(h, s, v float64) color.RGBA {
	i := math.Floor(h * 6)
	f := h*6 - i
	p, q, t := v*(1-s), v*(1-f*s), v*(1-(1-f)*s)
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func Save(c *gg.Context, path string) error {
	return errors.Wrapf(c.SavePNG(path), "saving %s", path)
}

// Show prints the drawing inline in the terminal (iTerm only).
func Show(c *gg.Context, w io.Writer) error {
	f, err := os.CreateTemp("", "hullcarve-*.png")
	if err != nil {
		return errors.Wrap(err, "creating preview file")
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := Save(c, path); err != nil {
		return err
	}
	imgcat.CatFile(path, w)
	return nil
}
