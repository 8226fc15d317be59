// Package export writes solver results to files: the plain solution text
// format, a PDF layout report, DXF drawings and Excel workbooks.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/SquareFit/internal/engine"
	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
	"github.com/piwi3910/SquareFit/internal/outline"
)

// Run is everything a report needs about one solver run.
type Run struct {
	ID       string
	Instance model.Instance
	Settings model.Settings
	Result   engine.Result
}

// placement is one point of a run as it appears in every export.
type placement struct {
	Index        int
	Point        model.WeightedPoint
	Position     geom.Point
	Square       geom.Rect
	Placed       bool
	Outline      int // index into Result.Outlines, -1 when unplaced
	Displacement float64
}

func placements(run Run) []placement {
	owner := make(map[int]int)
	for i, o := range run.Result.Outlines {
		for _, r := range o.Rectangles() {
			owner[r.Point.ID] = i
		}
	}

	out := make([]placement, 0, len(run.Instance.Points))
	for i, p := range run.Instance.Points {
		pos := p.Centroid()
		if i < len(run.Result.Solution.Positions) {
			pos = run.Result.Solution.Positions[i]
		}
		pl := placement{
			Index:        i,
			Point:        p,
			Position:     pos,
			Square:       p.SquareAt(pos),
			Outline:      -1,
			Displacement: p.Position().Dist(pos),
		}
		if i < len(run.Result.Placed) && run.Result.Placed[i] {
			pl.Placed = true
			if o, ok := owner[p.ID]; ok {
				pl.Outline = o
			}
		}
		out = append(out, pl)
	}
	return out
}

// extent is the box every drawing of the run has to cover.
func extent(run Run) geom.Rect {
	box := run.Instance.Bounds.Rect()
	for _, pl := range placements(run) {
		box = box.Union(pl.Square)
	}
	return box
}

// outlinePolygons returns the vertex rings of every outline. Outlines whose
// cycles cannot be walked are skipped.
func outlinePolygons(outlines []*outline.Outline) [][]geom.Point {
	var rings [][]geom.Point
	for _, o := range outlines {
		vs, err := o.Vertices()
		if err != nil {
			continue
		}
		rings = append(rings, vs...)
	}
	return rings
}

// WriteSolution writes sol as the tag, the instance id and one "x y" line per
// point.
func WriteSolution(w io.Writer, sol model.Solution) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", sol.Tag, sol.InstanceID)
	for _, p := range sol.Positions {
		fmt.Fprintf(bw, "%s %s\n", strconv.FormatFloat(p.X, 'f', -1, 64), strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return bw.Flush()
}

// WriteSolutionFile writes sol to path.
func WriteSolutionFile(path string, sol model.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create solution file: %w", err)
	}
	if err := WriteSolution(f, sol); err != nil {
		f.Close()
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return f.Close()
}
