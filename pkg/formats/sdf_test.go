package formats

import (
	"bytes"
	"encoding/xml"
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

func testField() *levelset.Field {
	g := levelset.Grid{NI: 3, NJ: 2, NK: 2, Origin: r3.Vec{X: -0.1, Y: 1.0 / 3, Z: 2e-9}, Spacing: 0.1}
	f := levelset.NewField(g)
	for i := range f.Values {
		f.Values[i] = gomath.Sqrt(float64(i)) - 1.7
	}
	f.Values[4] = gomath.Inf(1)
	f.Values[5] = 0
	return f
}

func TestSDF_RoundTrip(t *testing.T) {
	f := testField()

	var buf bytes.Buffer
	require.NoError(t, WriteSDF(&buf, f))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3+f.Len())
	require.Equal(t, "3 2 2", lines[0])
	require.Equal(t, "-0.1 0.3333333333333333 2e-09", lines[1])
	require.Equal(t, "0.1", lines[2])
	require.Equal(t, "+Inf", lines[3+4])

	got, err := ParseSDF(&buf)
	require.NoError(t, err)
	require.Equal(t, f.Grid, got.Grid)
	require.Equal(t, f.Values, got.Values)
}

func TestSDF_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.sdf")
	f := testField()

	require.NoError(t, WriteSDFFile(path, f))
	got, err := ParseSDFFile(path)
	require.NoError(t, err)
	require.Equal(t, f.Values, got.Values)

	_, err = ParseSDFFile(filepath.Join(t.TempDir(), "missing.sdf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseSDF_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"two dims", "2 2\n0 0 0\n1\n"},
		{"zero dim", "0 1 1\n0 0 0\n1\n"},
		{"bad origin", "1 1 1\n0 x 0\n1\n0\n"},
		{"bad spacing", "1 1 1\n0 0 0\n-1\n0\n"},
		{"missing values", "2 1 1\n0 0 0\n1\n0.5\n"},
		{"bad value", "1 1 1\n0 0 0\n1\nnope\n"},
		{"trailing data", "1 1 1\n0 0 0\n1\n0.5\n0.7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSDF(strings.NewReader(tt.src))
			require.ErrorIs(t, err, ErrMalformedSDF)
		})
	}
}

func TestWriteSDF_RejectsInconsistentField(t *testing.T) {
	f := testField()
	f.Values = f.Values[:3]
	require.Error(t, WriteSDF(&bytes.Buffer{}, f))
}

func TestWriteVTR(t *testing.T) {
	f := testField()

	var buf bytes.Buffer
	require.NoError(t, WriteVTR(&buf, f))
	require.True(t, strings.HasPrefix(buf.String(), "<?xml"))

	var doc vtkFile
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "RectilinearGrid", doc.Type)
	require.Equal(t, "0 2 0 1 0 1", doc.Grid.WholeExtent)
	require.Equal(t, doc.Grid.WholeExtent, doc.Grid.Piece.Extent)

	arrays := doc.Grid.Piece.PointData.Arrays
	require.Len(t, arrays, 1)
	require.Equal(t, "phi", arrays[0].Name)
	require.Len(t, strings.Fields(arrays[0].Data), f.Len())
	require.NotContains(t, arrays[0].Data, "Inf")

	coords := doc.Grid.Piece.Coordinates.Arrays
	require.Len(t, coords, 3)
	require.Len(t, strings.Fields(coords[0].Data), f.NI)
	require.Len(t, strings.Fields(coords[2].Data), f.NK)
}

func TestReadMeshFile(t *testing.T) {
	dir := t.TempDir()
	m, _, err := ParseOBJ(strings.NewReader(tetraOBJ))
	require.NoError(t, err)

	for _, name := range []string{"tetra.obj", "tetra.STL"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteMeshFile(path, m))

			got, info, err := ReadMeshFile(path)
			require.NoError(t, err)
			require.Equal(t, m.FaceCount(), got.FaceCount())
			require.Equal(t, m.Bounds, got.Bounds)
			require.NotEqual(t, FormatUnknown, info.Format)
		})
	}

	_, _, err = ReadMeshFile(filepath.Join(dir, "tetra.ply"))
	require.True(t, errors.Is(err, ErrUnsupportedExtension))

	_, _, err = ReadMeshFile(filepath.Join(dir, "missing.obj"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
