package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
)

// segment is a line segment used for chaining loose LINE entities into
// closed shapes.
type segment struct {
	start geom.Point
	end   geom.Point
}

// ImportDXF imports points from a DXF drawing. Every CIRCLE becomes a point at
// its center weighted by its diameter. Every closed LWPOLYLINE or chain of
// connected LINEs becomes a point at the center of its bounding box weighted
// by the longer side. Weights are rounded to the nearest integer.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []geom.Rect
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Circle:
			c := geom.Pt(e.Center[0], e.Center[1])
			shapes = append(shapes, geom.RectAround(c, 2*e.Radius, 2*e.Radius))

		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]geom.Point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = geom.Pt(v[0], v[1])
			}
			shapes = append(shapes, boundingBox(pts))

		case *entity.Line:
			segments = append(segments, segment{
				start: geom.Pt(e.Start[0], e.Start[1]),
				end:   geom.Pt(e.End[0], e.End[1]),
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, chain := range chainSegments(segments, 0.01) {
		shapes = append(shapes, boundingBox(chain))
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, box := range shapes {
		side := math.Max(box.Width(), box.Height())
		if side < 0.5 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", box.Width(), box.Height()))
			continue
		}
		c := box.Center()
		result.Points = append(result.Points, model.NewWeightedPoint(len(result.Points), c.X, c.Y, int(math.Round(side))))
	}

	return result
}

func boundingBox(pts []geom.Point) geom.Rect {
	box := geom.Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range pts {
		box.MinX = math.Min(box.MinX, p.X)
		box.MinY = math.Min(box.MinY, p.Y)
		box.MaxX = math.Max(box.MaxX, p.X)
		box.MaxY = math.Max(box.MaxY, p.Y)
	}
	return box
}

// chainSegments connects individual segments into closed chains. Open chains
// are dropped. tolerance is the maximum distance between endpoints to
// consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]geom.Point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var chains [][]geom.Point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []geom.Point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if tail.Dist(seg.start) <= tolerance {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if tail.Dist(seg.end) <= tolerance {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && chain[0].Dist(chain[len(chain)-1]) <= tolerance {
			chains = append(chains, chain[:len(chain)-1])
		}
	}

	// Largest first for a stable point order.
	sort.SliceStable(chains, func(i, j int) bool {
		return chainArea(chains[i]) > chainArea(chains[j])
	})

	return chains
}

// chainArea computes the absolute area of a polygon using the shoelace formula.
func chainArea(pts []geom.Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(area) / 2
}
