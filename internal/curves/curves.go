// Package curves draws the scoring curve of every configured metric as a PNG
// file using gonum.org/v1/plot.
package curves

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/huangsam/vcxscore/core/algo"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultSamples is the number of points sampled along a formula curve.
const DefaultSamples = 101

// Plot dimensions.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// Plotter writes one PNG per metric into Dir.
type Plotter struct {
	Fs       afero.Fs
	Dir      string
	Formulas algo.FormulaSet
	Samples  int
}

// NewPlotter creates a Plotter writing into dir on fs.
func NewPlotter(fs afero.Fs, dir string, formulas algo.FormulaSet) *Plotter {
	return &Plotter{Fs: fs, Dir: dir, Formulas: formulas, Samples: DefaultSamples}
}

// FileName returns the plot file name of one metric.
func FileName(subScore, metric string) string {
	return fileNameReplacer.Replace(subScore+" "+metric) + ".png"
}

// PlotAll plots every IQ and performance metric of cfg and returns the written
// paths. A curve that cannot be drawn is skipped; the failures are joined into
// the returned error.
func (p *Plotter) PlotAll(cfg *schema.ScoringConfig) ([]string, error) {
	if err := p.Fs.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}
	var paths []string
	var errs []error
	plotOne := func(subScore, metric string, f schema.FormulaSpec, lgc, hgc float64) {
		path, err := p.PlotCurve(subScore, metric, f, lgc, hgc)
		if err != nil {
			errs = append(errs, err)
			return
		}
		paths = append(paths, path)
	}
	for _, s := range cfg.SubScores {
		for _, g := range s.Groups {
			for _, m := range g.Metrics {
				plotOne(s.Name, m.Name, m.Formula, m.LGC, m.HGC)
			}
		}
	}
	for _, m := range cfg.Performance.Metrics {
		plotOne("Performance", m.Name, m.Formula, m.LGC, m.HGC)
	}
	return paths, errors.Join(errs...)
}

// PlotCurve draws one scoring curve and writes it to Dir.
func (p *Plotter) PlotCurve(subScore, metric string, f schema.FormulaSpec, lgc, hgc float64) (string, error) {
	pts, err := Sample(f, lgc, hgc, p.Formulas, p.Samples)
	if err != nil {
		return "", fmt.Errorf("failed to sample %s %s: %w", subScore, metric, err)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s %s (%s)", subScore, metric, f.Label())
	pl.X.Label.Text = "value"
	pl.Y.Label.Text = "score"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("failed to build curve: %w", err)
	}
	pl.Add(line)

	if f.IsInterpolated() {
		knots, err := plotter.NewScatter(controlPointXYs(*f.Points))
		if err != nil {
			return "", fmt.Errorf("failed to build control points: %w", err)
		}
		pl.Add(knots)
	}

	wt, err := pl.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return "", fmt.Errorf("failed to render plot: %w", err)
	}

	path := filepath.Join(p.Dir, FileName(subScore, metric))
	file, err := p.Fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create plot file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := wt.WriteTo(file); err != nil {
		return "", fmt.Errorf("failed to write plot file: %w", err)
	}
	return path, nil
}

// Sample evaluates the unweighted curve of f at n evenly spaced points.
// Control point curves span their knots; formula curves span the band between
// LGC and HGC widened by half its width on both sides. Points where the
// formula hits a degenerate guard are left out.
func Sample(f schema.FormulaSpec, lgc, hgc float64, formulas algo.FormulaSet, n int) (plotter.XYs, error) {
	if n < 2 {
		n = 2
	}
	var lo, hi float64
	if f.IsInterpolated() {
		if err := algo.ValidateControlPoints(*f.Points); err != nil {
			return nil, err
		}
		lo, hi = f.Points.XP[0], f.Points.XP[len(f.Points.XP)-1]
	} else {
		if !formulas.Supports(f.Tag) {
			return nil, fmt.Errorf("%w: %q in %s", schema.ErrUnsupportedFormula, f.Tag, formulas.Version())
		}
		lo, hi = math.Min(lgc, hgc), math.Max(lgc, hgc)
		margin := (hi - lo) / 2
		lo, hi = lo-margin, hi+margin
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	pts := make(plotter.XYs, 0, n)
	step := (hi - lo) / float64(n-1)
	for i := range n {
		x := lo + float64(i)*step
		var y float64
		if f.IsInterpolated() {
			y = algo.InterpolatedScore(x, *f.Points, 1)
		} else {
			score, err := formulas.Score(x, f.Tag, lgc, hgc, 1)
			if errors.Is(err, schema.ErrDegenerateGuard) {
				continue
			}
			if err != nil {
				return nil, err
			}
			y = score
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no finite point on the curve", schema.ErrDegenerateGuard)
	}
	return pts, nil
}

func controlPointXYs(cp schema.ControlPoints) plotter.XYs {
	pts := make(plotter.XYs, len(cp.XP))
	for i := range cp.XP {
		pts[i] = plotter.XY{X: cp.XP[i], Y: cp.YP[i]}
	}
	return pts
}
