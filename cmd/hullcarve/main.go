package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/hullcarve"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/render"
	"github.com/osuushi/hullcarve/internal/svgmark"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const hullMaterial = 1

// Demo of carving markings into a single rectangular hull face. Markings come
// from the <polygon> elements of SVG files, or when no files are given, from
// stdin as newline separated points in the form "x y", with each polygon
// separated by an extra newline. The hull is the markings' bounding box grown
// by the margin on every side.
func main() {
	app := kingpin.New("hullcarve", "Carve marking outlines into a hull face and report the result.")
	configPath := app.Flag("config", "YAML file with carve tolerances.").Short('c').ExistingFile()
	margin := app.Flag("margin", "Hull margin around the markings, as a fraction of their size.").Default("0.1").Float64()
	pngPath := app.Flag("png", "Write a preview PNG here.").String()
	show := app.Flag("show", "Print the preview inline (iTerm only).").Bool()
	scale := app.Flag("scale", "Preview pixels per model unit.").Default("400").Float64()
	verbose := app.Flag("verbose", "Log every diagnostic.").Short('v').Bool()
	files := app.Arg("svg", "SVG files with marking polygons.").ExistingFiles()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(*configPath, *files, *margin, *pngPath, *show, *scale, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, files []string, margin float64, pngPath string, show bool, scale float64, verbose bool) error {
	cfg := hullcarve.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = hullcarve.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.Verbose = cfg.Verbose || verbose

	outlines, err := readOutlines(files)
	if err != nil {
		return err
	}
	fmt.Printf("Read %d markings\n", len(outlines))

	model := hullModel(outlines, margin)
	result, err := hullcarve.Carve(model, cfg)
	if err != nil {
		return err
	}
	report(model, result)

	if pngPath == "" && !show {
		return nil
	}
	c := render.Face(result.Faces[0], scale)
	if pngPath != "" {
		if err := render.Save(c, pngPath); err != nil {
			return err
		}
	}
	if show {
		return render.Show(c, os.Stdout)
	}
	return nil
}

func readOutlines(files []string) ([]svgmark.Outline, error) {
	if len(files) == 0 {
		outlines, err := readPolygons(os.Stdin)
		if err == nil && len(outlines) == 0 {
			err = errors.New("no polygons on stdin")
		}
		return outlines, err
	}
	var outlines []svgmark.Outline
	for _, path := range files {
		o, err := svgmark.Load(path)
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, o...)
	}
	return outlines, nil
}

func readPolygons(in io.Reader) ([]svgmark.Outline, error) {
	var outlines []svgmark.Outline
	var points []geom.Point3
	flush := func() {
		if len(points) > 0 {
			outlines = append(outlines, svgmark.Outline{Points: points})
			points = nil
		}
	}

	scanner := bufio.NewScanner(in)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			flush()
			continue
		}
		p, err := parsePoint(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		points = append(points, p)
	}
	flush()
	return outlines, errors.Wrap(scanner.Err(), "reading stdin")
}

func parsePoint(line string) (geom.Point3, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return geom.Point3{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geom.Point3{}, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geom.Point3{}, errors.Wrap(err, "y")
	}
	return geom.Point3{X: x, Y: y}, nil
}

// hullModel builds a one face model whose face is a rectangle around every
// outline. Markings without a material get one by position.
func hullModel(outlines []svgmark.Outline, margin float64) *hullcarve.Model {
	lo := geom.Point3{X: math.Inf(1), Y: math.Inf(1)}
	hi := geom.Point3{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, o := range outlines {
		for _, p := range o.Points {
			lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
			hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
		}
	}
	pad := margin * math.Max(hi.X-lo.X, hi.Y-lo.Y)
	lo.X, lo.Y = lo.X-pad, lo.Y-pad
	hi.X, hi.Y = hi.X+pad, hi.Y+pad

	face := hullcarve.Face{
		Polygon:  []int{0, 1, 2, 3},
		Normal:   geom.Point3{Z: 1},
		Material: hullMaterial,
	}
	for i, o := range outlines {
		material := o.Material
		if material == 0 {
			material = hullMaterial + 1 + i
		}
		face.Markings = append(face.Markings, hullcarve.Marking{Outline: o.Points, Material: material})
	}
	return &hullcarve.Model{
		Vertices: []geom.Point3{lo, {X: hi.X, Y: lo.Y}, hi, {X: lo.X, Y: hi.Y}},
		Faces:    []hullcarve.Face{face},
	}
}

func report(model *hullcarve.Model, result *hullcarve.Result) {
	face := result.Faces[0]
	v := model.Vertices
	hullArea := (v[2].X - v[0].X) * (v[2].Y - v[0].Y)
	fmt.Printf("Hull area %.6f\n", hullArea)
	fmt.Printf("Base: %d triangles, area %.6f\n", face.Base.Triangles(), face.Base.Area())

	areas := make(map[int]float64)
	counts := make(map[int]int)
	for i := 0; i < face.Marking.Triangles(); i++ {
		m := face.Marking.Materials[i]
		areas[m] += geom.TriangleArea(face.Marking.Triangle(i))
		counts[m]++
	}
	materials := make([]int, 0, len(areas))
	for m := range areas {
		materials = append(materials, m)
	}
	sort.Ints(materials)
	for _, m := range materials {
		fmt.Printf("Material %d: %d triangles, area %.6f\n", m, counts[m], areas[m])
	}

	total := face.Base.Area() + face.Marking.Area()
	if math.Abs(total-hullArea) > 1e-6*math.Max(1, hullArea) {
		fmt.Println(aurora.Red(fmt.Sprintf("Area drift: %.9f", total-hullArea)))
	} else {
		fmt.Println(aurora.Green("Area conserved"))
	}
	for _, d := range result.Diagnostics {
		fmt.Println(aurora.Yellow(d.String()))
	}
}
