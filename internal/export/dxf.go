package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// DXF layer names.
const (
	LayerViewport     = "VIEWPORT"
	LayerSquares      = "SQUARES"
	LayerUnplaced     = "UNPLACED"
	LayerOutlines     = "OUTLINES"
	LayerDisplacement = "DISPLACEMENT"
)

// ExportDXF writes the run as a DXF drawing: the viewport, one closed
// polyline per square, the outline boundaries and a displacement line from
// every original point to its square center, each on its own layer.
func ExportDXF(path string, run Run) error {
	d := dxf.NewDrawing()

	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerViewport, color.White},
		{LayerSquares, color.Green},
		{LayerUnplaced, color.Red},
		{LayerOutlines, color.Blue},
		{LayerDisplacement, color.Magenta},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerViewport); err != nil {
		return err
	}
	if err := dxfRect(d, run.Instance.Bounds.Rect()); err != nil {
		return err
	}

	rows := placements(run)
	for _, pl := range rows {
		layer := LayerSquares
		if !pl.Placed {
			layer = LayerUnplaced
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		if err := dxfRect(d, pl.Square); err != nil {
			return fmt.Errorf("failed to draw point %d: %w", pl.Point.ID, err)
		}
	}

	if err := d.ChangeLayer(LayerOutlines); err != nil {
		return err
	}
	for _, ring := range outlinePolygons(run.Result.Outlines) {
		if err := dxfRing(d, ring); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerDisplacement); err != nil {
		return err
	}
	for _, pl := range rows {
		if pl.Displacement <= geom.Epsilon {
			continue
		}
		from := pl.Point.Position()
		if _, err := d.Line(from.X, from.Y, 0, pl.Position.X, pl.Position.Y, 0); err != nil {
			return err
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func dxfRect(d *drawing.Drawing, r geom.Rect) error {
	c := r.Corners()
	return dxfRing(d, c[:])
}

// dxfRing draws a closed ring as individual lines.
func dxfRing(d *drawing.Drawing, ring []geom.Point) error {
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return err
		}
	}
	return nil
}
