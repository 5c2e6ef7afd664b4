// Package chart renders the time-vs-threads line chart for a finished
// benchmark session.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const defaultTitle = "Parallel TSP Execution Time vs Threads"

// OutputPath derives the chart file name from the TSP file and the city
// count: <dir>/parallel_time_<base>_<cities>.png, where <base> is the
// file's base name with the extension stripped.
func OutputPath(dir, tspFile string, cities int) string {
	base := filepath.Base(tspFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, fmt.Sprintf("parallel_time_%s_%d.png", base, cities))
}

// EnsureDir creates the plots directory if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating plots directory %s: %w", dir, err)
	}
	return nil
}

// PNGWriter renders line charts with point markers to PNG files.
type PNGWriter struct {
	Title string
}

func NewPNGWriter() *PNGWriter {
	return &PNGWriter{Title: defaultTitle}
}

// WriteChart plots execution time against thread count, in the order
// given, and saves the result to path.
func (w *PNGWriter) WriteChart(threads []int, times []float64, path string) error {
	if len(threads) != len(times) {
		return fmt.Errorf("chart data mismatch: %d thread counts, %d times", len(threads), len(times))
	}

	p := plot.New()
	p.Title.Text = w.Title
	p.X.Label.Text = "Number of Threads"
	p.Y.Label.Text = "Execution Time (seconds)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(threads))
	for i := range threads {
		pts[i].X = float64(threads[i])
		pts[i].Y = times[i]
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("building line plot: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart to %s: %w", path, err)
	}
	return nil
}
