// Package formats reads and writes triangle meshes (Wavefront OBJ, STL) and
// signed distance fields (SDF text, VTK rectilinear grids).
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strconv"
	"strings"

	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
)

// OBJStats reports what ParseOBJ saw besides vertices and faces.
type OBJStats struct {
	Lines        int
	IgnoredLines int // comments, normals, texture coordinates, groups, ...
	Polygons     int // faces with more than three corners, fan-triangulated
}

// ParseOBJ reads vertex and face records from Wavefront OBJ text. Face
// corners may be written as v, v/vt, v//vn or v/vt/vn; only the vertex index
// is used. Negative indices count back from the last vertex read so far.
func ParseOBJ(r io.Reader) (*mesh.Triangulation, OBJStats, error) {
	var (
		stats    OBJStats
		vertices []mesh.Vertex
		faces    []mesh.Face
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		stats.Lines++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, stats, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformedOBJ, stats.Lines)
			}
			var p [3]float64
			for i := range p {
				f, err := parseCoord(fields[i+1])
				if err != nil {
					return nil, stats, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, stats.Lines, err)
				}
				p[i] = f
			}
			vertices = append(vertices, mesh.Vertex{X: p[0], Y: p[1], Z: p[2]})

		case "f":
			if len(fields) < 4 {
				return nil, stats, fmt.Errorf("%w: line %d: face needs 3 corners", ErrMalformedOBJ, stats.Lines)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := objIndex(tok, len(vertices))
				if err != nil {
					return nil, stats, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, stats.Lines, err)
				}
				corners = append(corners, idx)
			}
			if len(corners) > 3 {
				stats.Polygons++
			}
			for i := 1; i+1 < len(corners); i++ {
				faces = append(faces, mesh.Face{corners[0], corners[i], corners[i+1]})
			}

		default:
			stats.IgnoredLines++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("reading OBJ: %w", err)
	}

	m, err := mesh.New(vertices, faces)
	if err != nil {
		return nil, stats, err
	}
	return m, stats, nil
}

// objIndex resolves one face corner token to a 0-based vertex index.
func objIndex(tok string, nverts int) (int, error) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		tok = tok[:i]
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad vertex index %q", tok)
	}
	switch {
	case n > 0 && n <= nverts:
		return n - 1, nil
	case n < 0 && -n <= nverts:
		return nverts + n, nil
	default:
		return 0, fmt.Errorf("vertex index %d out of range (1..%d)", n, nverts)
	}
}

// WriteOBJ writes m as OBJ text with 1-based indices.
func WriteOBJ(w io.Writer, m *mesh.Triangulation) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d faces\n", m.VertexCount(), m.FaceCount())
	for _, v := range m.Vertices {
		bw.WriteString("v ")
		bw.WriteString(formatFloat(v.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Z))
		bw.WriteByte('\n')
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

// formatFloat uses the shortest representation that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseCoord parses a vertex coordinate. NaN and infinities are rejected
// since they would poison the mesh bounds and the grid sizing.
func parseCoord(tok string) (float64, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite coordinate %q", tok)
	}
	return f, nil
}
