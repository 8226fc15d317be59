package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
)

const sampleInstance = `4
0 10 -2 8
3
0 0 3
1.25 2.5 1
7 -1 2
`

func TestReadInstance(t *testing.T) {
	inst, err := ReadInstance(strings.NewReader(sampleInstance))
	require.NoError(t, err)

	assert.Equal(t, 4, inst.ID)
	assert.Equal(t, model.Bounds{MinX: 0, MaxX: 10, MinY: -2, MaxY: 8}, inst.Bounds)
	require.Len(t, inst.Points, 3)
	assert.Equal(t, model.NewWeightedPoint(1, 1.25, 2.5, 1), inst.Points[1])
	assert.Equal(t, 2, inst.Points[2].ID)
}

func TestReadInstance_SingleLine(t *testing.T) {
	inst, err := ReadInstance(strings.NewReader("1 0 1 0 1 1 0.5 0.5 1"))
	require.NoError(t, err)
	require.Len(t, inst.Points, 1)
}

func TestReadInstance_Malformed(t *testing.T) {
	cases := map[string]string{
		"truncated":      "4\n0 10 -2 8\n3\n0 0 3\n",
		"bad bounds":     "4\n0 ten -2 8\n0\n",
		"bad weight":     "1\n0 1 0 1\n1\n0 0 1.5\n",
		"zero weight":    "1\n0 1 0 1\n1\n0 0 0\n",
		"negative count": "1\n0 1 0 1\n-1\n",
		"empty":          "",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadInstance(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestWriteInstance_RoundTrip(t *testing.T) {
	inst, err := ReadInstance(strings.NewReader(sampleInstance))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInstance(&buf, inst))
	assert.Equal(t, sampleInstance, buf.String())

	again, err := ReadInstance(&buf)
	require.NoError(t, err)
	assert.Equal(t, inst, again)
}

func TestReadSolution(t *testing.T) {
	sol, err := ReadSolution(strings.NewReader("1\n4\n-0.5 -0.5\n3.5 -0.5\n"), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, sol.Tag)
	assert.Equal(t, 4, sol.InstanceID)
	assert.Equal(t, []geom.Point{{X: -0.5, Y: -0.5}, {X: 3.5, Y: -0.5}}, sol.Positions)
}

func TestReadSolution_CountMismatch(t *testing.T) {
	_, err := ReadSolution(strings.NewReader("1\n4\n0 0\n"), 2)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ReadSolution(strings.NewReader("1\n4\n0 0\n1 1\n2 2\n"), 2)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	instPath := filepath.Join(dir, "instance.txt")
	solPath := filepath.Join(dir, "solution.txt")
	require.NoError(t, os.WriteFile(instPath, []byte(sampleInstance), 0644))
	require.NoError(t, os.WriteFile(solPath, []byte("1 4 0 0 1 1 2 2"), 0644))

	inst, err := ReadInstanceFile(instPath)
	require.NoError(t, err)
	sol, err := ReadSolutionFile(solPath, len(inst.Points))
	require.NoError(t, err)
	assert.Len(t, sol.Positions, 3)

	_, err = ReadInstanceFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
