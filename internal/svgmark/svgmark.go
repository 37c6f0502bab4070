// Package svgmark reads marking outlines from SVG drawings. It is not a real
// SVG reader: it collects every <polygon> element and its points, which is all
// a marking sheet needs. SVG's y axis points down, so y is negated to keep
// drawings upright in model space.
package svgmark

import (
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/pkg/errors"
)

// Outline is one polygon from the drawing, in the z=0 plane.
type Outline struct {
	ID       string
	Points   []geom.Point3
	Material int // data-material attribute, or 0
}

func Load(path string) ([]Outline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	outlines, err := Parse(f)
	return outlines, errors.Wrapf(err, "reading %s", path)
}

// Parse returns the document's polygons in document order.
func Parse(r io.Reader) ([]Outline, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	var outlines []Outline
	for i, el := range root.FindAll("polygon") {
		points, err := parsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		if len(points) < 3 {
			return nil, errors.Errorf("polygon %d has %d points", i, len(points))
		}
		o := Outline{ID: el.Attributes["id"], Points: points}
		if m, ok := el.Attributes["data-material"]; ok {
			o.Material, err = strconv.Atoi(strings.TrimSpace(m))
			if err != nil {
				return nil, errors.Wrapf(err, "polygon %d material", i)
			}
		}
		outlines = append(outlines, o)
	}
	if len(outlines) == 0 {
		return nil, errors.New("no polygons found")
	}
	return outlines, nil
}

// parsePoints reads "x,y x,y ..." with any mix of commas and whitespace
// between numbers.
func parsePoints(s string) ([]geom.Point3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", s)
	}
	points := make([]geom.Point3, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, geom.Point3{X: x, Y: -y})
	}
	return points, nil
}
