package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
)

// ErrMalformed is returned when an instance or solution file does not follow
// the text format.
var ErrMalformed = errors.New("malformed input")

// tokens reads whitespace separated fields regardless of line layout.
type tokens struct {
	sc   *bufio.Scanner
	read int
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

func (t *tokens) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: missing %s after %d values", ErrMalformed, what, t.read)
	}
	t.read++
	return t.sc.Text(), nil
}

func (t *tokens) integer(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrMalformed, what, s)
	}
	return v, nil
}

func (t *tokens) number(what string) (float64, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformed, what, s)
	}
	return v, nil
}

// ReadInstance parses an instance: the id, the bounds as
// "min_x max_x min_y max_y", the point count and one "x y weight" triple per
// point. Point ids are their input indices.
func ReadInstance(r io.Reader) (model.Instance, error) {
	t := newTokens(r)
	var inst model.Instance
	var err error

	if inst.ID, err = t.integer("instance id"); err != nil {
		return model.Instance{}, err
	}
	for _, f := range []struct {
		dst  *int
		name string
	}{
		{&inst.Bounds.MinX, "min_x"},
		{&inst.Bounds.MaxX, "max_x"},
		{&inst.Bounds.MinY, "min_y"},
		{&inst.Bounds.MaxY, "max_y"},
	} {
		if *f.dst, err = t.integer(f.name); err != nil {
			return model.Instance{}, err
		}
	}
	n, err := t.integer("point count")
	if err != nil {
		return model.Instance{}, err
	}
	if n < 0 {
		return model.Instance{}, fmt.Errorf("%w: negative point count %d", ErrMalformed, n)
	}

	inst.Points = make([]model.WeightedPoint, 0, n)
	for i := 0; i < n; i++ {
		x, err := t.number(fmt.Sprintf("x of point %d", i))
		if err != nil {
			return model.Instance{}, err
		}
		y, err := t.number(fmt.Sprintf("y of point %d", i))
		if err != nil {
			return model.Instance{}, err
		}
		w, err := t.integer(fmt.Sprintf("weight of point %d", i))
		if err != nil {
			return model.Instance{}, err
		}
		if w < 1 {
			return model.Instance{}, fmt.Errorf("%w: point %d has weight %d", ErrMalformed, i, w)
		}
		inst.Points = append(inst.Points, model.NewWeightedPoint(i, x, y, w))
	}
	return inst, nil
}

// ReadInstanceFile reads an instance from path.
func ReadInstanceFile(path string) (model.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Instance{}, fmt.Errorf("failed to open instance: %w", err)
	}
	defer f.Close()

	inst, err := ReadInstance(f)
	if err != nil {
		return model.Instance{}, fmt.Errorf("failed to read instance %s: %w", path, err)
	}
	return inst, nil
}

// WriteInstance writes inst in the format read by ReadInstance.
func WriteInstance(w io.Writer, inst model.Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", inst.ID)
	fmt.Fprintf(bw, "%d %d %d %d\n", inst.Bounds.MinX, inst.Bounds.MaxX, inst.Bounds.MinY, inst.Bounds.MaxY)
	fmt.Fprintf(bw, "%d\n", len(inst.Points))
	for _, p := range inst.Points {
		fmt.Fprintf(bw, "%s %s %d\n", formatCoord(p.X), formatCoord(p.Y), p.Weight)
	}
	return bw.Flush()
}

// ReadSolution parses a solution for an instance of n points: the tag, the
// instance id and one "x y" pair per point.
func ReadSolution(r io.Reader, n int) (model.Solution, error) {
	t := newTokens(r)
	var sol model.Solution
	var err error

	if sol.Tag, err = t.integer("solution tag"); err != nil {
		return model.Solution{}, err
	}
	if sol.InstanceID, err = t.integer("instance id"); err != nil {
		return model.Solution{}, err
	}
	sol.Positions = make([]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		x, err := t.number(fmt.Sprintf("x of point %d", i))
		if err != nil {
			return model.Solution{}, err
		}
		y, err := t.number(fmt.Sprintf("y of point %d", i))
		if err != nil {
			return model.Solution{}, err
		}
		sol.Positions = append(sol.Positions, geom.Pt(x, y))
	}
	if _, err := t.next("end of file"); err == nil {
		return model.Solution{}, fmt.Errorf("%w: more than %d positions", ErrMalformed, n)
	}
	return sol, nil
}

// ReadSolutionFile reads a solution for an instance of n points from path.
func ReadSolutionFile(path string, n int) (model.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Solution{}, fmt.Errorf("failed to open solution: %w", err)
	}
	defer f.Close()

	sol, err := ReadSolution(f, n)
	if err != nil {
		return model.Solution{}, fmt.Errorf("failed to read solution %s: %w", path, err)
	}
	return sol, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
