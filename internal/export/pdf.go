package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// outlineColor is an RGB fill for the squares of one outline.
type outlineColor struct {
	R, G, B int
}

var outlineColors = []outlineColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 14.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// canvas maps plane coordinates onto the drawing area of a page. The y axis
// is flipped so larger y is drawn higher up.
type canvas struct {
	box            geom.Rect
	scale          float64
	offsetX, origY float64
}

func newCanvas(box geom.Rect) canvas {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/math.Max(box.Width(), 1), drawHeight/math.Max(box.Height(), 1))
	return canvas{
		box:     box,
		scale:   scale,
		offsetX: marginLeft + (drawWidth-box.Width()*scale)/2,
		origY:   drawAreaTop,
	}
}

func (c canvas) x(v float64) float64 { return c.offsetX + (v-c.box.MinX)*c.scale }
func (c canvas) y(v float64) float64 { return c.origY + (c.box.MaxY-v)*c.scale }

func (c canvas) rect(pdf *fpdf.Fpdf, r geom.Rect, style string) {
	pdf.Rect(c.x(r.MinX), c.y(r.MaxY), r.Width()*c.scale, r.Height()*c.scale, style)
}

// ExportPDF renders the run as a layout page followed by a summary page with
// the run statistics and a QR code of the summary.
func ExportPDF(path string, run Run) error {
	if len(run.Instance.Points) == 0 {
		return fmt.Errorf("no points to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, run)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, run); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

func renderLayoutPage(pdf *fpdf.Fpdf, run Run) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Instance %d: %d points", run.Instance.ID, len(run.Instance.Points))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	res := run.Result
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placed: %d | Outlines: %d | Total displacement: %.2f | Max displacement: %.2f",
		res.PlacedCount(), len(res.Outlines), res.TotalDisplacement, res.MaxDisplacement)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	rows := placements(run)
	c := newCanvas(extent(run))

	// Viewport
	pdf.SetFillColor(245, 245, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	c.rect(pdf, run.Instance.Bounds.Rect(), "FD")

	for _, pl := range rows {
		if pl.Placed {
			col := outlineColors[0]
			if pl.Outline >= 0 {
				col = outlineColors[pl.Outline%len(outlineColors)]
			}
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.2)
			c.rect(pdf, pl.Square, "FD")
		} else {
			pdf.SetFillColor(255, 200, 200)
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.3)
			c.rect(pdf, pl.Square, "FD")
			drawHatchPattern(pdf, c.x(pl.Square.MinX), c.y(pl.Square.MaxY), pl.Square.Width()*c.scale, pl.Square.Height()*c.scale)
		}
	}

	// Outline boundaries
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	for _, ring := range outlinePolygons(res.Outlines) {
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			pdf.Line(c.x(a.X), c.y(a.Y), c.x(b.X), c.y(b.Y))
		}
	}

	// Displacement from each original point to its square center
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)
	pdf.SetFillColor(200, 0, 0)
	for _, pl := range rows {
		from := pl.Point.Position()
		if pl.Displacement > geom.Epsilon {
			pdf.Line(c.x(from.X), c.y(from.Y), c.x(pl.Position.X), c.y(pl.Position.Y))
		}
		pdf.Circle(c.x(from.X), c.y(from.Y), 0.4, "F")
	}

	if side := c.scale; side > 6 {
		pdf.SetFont("Helvetica", "", labelFontSize(side))
		pdf.SetTextColor(0, 0, 0)
		for _, pl := range rows {
			label := fmt.Sprintf("%d", pl.Point.ID)
			w := pdf.GetStringWidth(label)
			pdf.SetXY(c.x(pl.Position.X)-w/2, c.y(pl.Position.Y)-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawOutlineLegend(pdf, run, c.y(c.box.MinY)+5)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark unplaced
// squares.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := math.Max(math.Min(w, h)/4, 0.5)
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawOutlineLegend lists the outlines with their colors below the drawing.
func drawOutlineLegend(pdf *fpdf.Fpdf, run Run, startY float64) {
	outlines := run.Result.Outlines
	if len(outlines) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Outlines:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, o := range outlines {
		col := outlineColors[i%len(outlineColors)]
		label := fmt.Sprintf("#%d (%d squares, %d edges)", o.ID(), o.Len(), o.EdgeCount())
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
			if startY > pageHeight-marginBottom {
				return
			}
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, run Run) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placement Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	res := run.Result
	n := len(run.Instance.Points)
	mean := 0.0
	if n > 0 {
		mean = res.TotalDisplacement / float64(n)
	}

	y = renderItems(pdf, "Overall Statistics", y, []summaryItem{
		{"Run", run.ID},
		{"Points", fmt.Sprintf("%d", n)},
		{"Placed", fmt.Sprintf("%d", res.PlacedCount())},
		{"Unplaced", fmt.Sprintf("%d", n-res.PlacedCount())},
		{"Total Displacement", fmt.Sprintf("%.3f", res.TotalDisplacement)},
		{"Mean Displacement", fmt.Sprintf("%.3f", mean)},
		{"Max Displacement", fmt.Sprintf("%.3f", res.MaxDisplacement)},
		{"Outlines", fmt.Sprintf("%d", len(res.Outlines))},
		{"Merges", fmt.Sprintf("%d", res.Stats.Merges)},
		{"Projections", fmt.Sprintf("%d", res.Stats.Projections)},
		{"Rejected Candidates", fmt.Sprintf("%d", res.Stats.Rejected)},
	})

	if len(res.Stalled) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, fmt.Sprintf("WARNING: %d points unplaced", len(res.Stalled)), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 9
	}

	s := run.Settings
	renderItems(pdf, "Solver Settings", y+4, []summaryItem{
		{"Heuristic", string(s.Heuristic)},
		{"Root Scale", fmt.Sprintf("%g", s.RootScale)},
		{"Max Attempts", fmt.Sprintf("%d", s.MaxAttempts)},
		{"Candidates per Outline", fmt.Sprintf("%d", s.CandidatesPerOutline)},
		{"Sanitize Buffers", fmt.Sprintf("%t", s.SanitizeBuffers)},
	})

	if err := renderSummaryQR(pdf, pageWidth-marginRight-qrSize, marginTop+18, Summarize(run)); err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SquareFit", "", 0, "C", false, 0, "")
	return nil
}

type summaryItem struct {
	label string
	value string
}

// renderItems draws a titled list of label/value pairs and returns the y
// position below it.
func renderItems(pdf *fpdf.Fpdf, title string, y float64, items []summaryItem) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// labelFontSize returns a font size for square labels given the drawn size
// of one grid unit.
func labelFontSize(unit float64) float64 {
	switch {
	case unit > 20:
		return 8
	case unit > 10:
		return 7
	default:
		return 6
	}
}
