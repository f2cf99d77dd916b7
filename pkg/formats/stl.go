package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/Faultbox/sdfgen/pkg/encoding"
	"github.com/Faultbox/sdfgen/pkg/geom"
	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// STL format errors.
var (
	ErrTruncatedSTL = errors.New("truncated STL data")
	ErrMalformedSTL = errors.New("malformed STL data")
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal, 3 vertices, attribute byte count
)

// STLInfo describes a parsed STL file.
type STLInfo struct {
	Binary    bool
	Name      string // solid name, or the binary header text
	Triangles int
}

// ParseSTL parses binary or ASCII STL data. Every facet contributes three
// new vertices; shared corners are not welded.
//
// Data is treated as binary when its size matches the triangle count in the
// header, even if it starts with "solid" as some exporters write.
func ParseSTL(data []byte) (*mesh.Triangulation, STLInfo, error) {
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlRecordSize
}

func parseBinarySTL(data []byte) (*mesh.Triangulation, STLInfo, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, STLInfo{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedSTL, len(data), stlHeaderSize+4)
	}
	info := STLInfo{
		Binary: true,
		Name:   encoding.FixedStringToUTF8(data[:stlHeaderSize]),
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*stlRecordSize {
		return nil, info, fmt.Errorf("%w: header declares %d triangles, data holds %d",
			ErrTruncatedSTL, count, len(body)/stlRecordSize)
	}

	n := int(count)
	vertices := make([]mesh.Vertex, 0, 3*n)
	faces := make([]mesh.Face, 0, n)
	for t := 0; t < n; t++ {
		rec := body[t*stlRecordSize:]
		// Skip the 12-byte facet normal.
		for c := 0; c < 3; c++ {
			off := 12 + c*12
			v := mesh.Vertex{
				X: float64(readFloat32(rec[off:])),
				Y: float64(readFloat32(rec[off+4:])),
				Z: float64(readFloat32(rec[off+8:])),
			}
			if !finite(v) {
				return nil, info, fmt.Errorf("%w: triangle %d: non-finite vertex %v", ErrMalformedSTL, t, v)
			}
			vertices = append(vertices, v)
		}
		faces = append(faces, mesh.Face{3 * t, 3*t + 1, 3*t + 2})
	}
	info.Triangles = n

	m, err := mesh.New(vertices, faces)
	if err != nil {
		return nil, info, err
	}
	return m, info, nil
}

func finite(v mesh.Vertex) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func readFloat32(b []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}

// stlLexer walks the non-empty lines of ASCII STL as lowercase fields.
type stlLexer struct {
	sc   *bufio.Scanner
	line int
}

func (l *stlLexer) next() ([]string, bool) {
	for l.sc.Scan() {
		l.line++
		fields := strings.Fields(strings.ToLower(l.sc.Text()))
		if len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

func (l *stlLexer) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedSTL, l.line, fmt.Sprintf(format, args...))
}

// expect reads the next line and checks that it starts with words.
func (l *stlLexer) expect(words ...string) ([]string, error) {
	fields, ok := l.next()
	if !ok {
		return nil, fmt.Errorf("%w: expected %q at end of input", ErrTruncatedSTL, strings.Join(words, " "))
	}
	if len(fields) < len(words) {
		return nil, l.errorf("expected %q", strings.Join(words, " "))
	}
	for i, w := range words {
		if fields[i] != w {
			return nil, l.errorf("expected %q, got %q", strings.Join(words, " "), strings.Join(fields, " "))
		}
	}
	return fields, nil
}

func parseASCIISTL(data []byte) (*mesh.Triangulation, STLInfo, error) {
	info := STLInfo{}
	lex := &stlLexer{sc: bufio.NewScanner(bytes.NewReader(data))}

	if _, err := lex.expect("solid"); err != nil {
		return nil, info, err
	}
	// The lexer lowercases; take the name from the raw line.
	if orig := strings.Fields(lineAt(data, lex.line)); len(orig) > 1 {
		info.Name = strings.Join(orig[1:], " ")
	}

	var (
		vertices []mesh.Vertex
		faces    []mesh.Face
	)
	for {
		fields, ok := lex.next()
		if !ok {
			return nil, info, fmt.Errorf("%w: missing endsolid", ErrTruncatedSTL)
		}
		if fields[0] == "endsolid" {
			break
		}
		if fields[0] != "facet" {
			return nil, info, lex.errorf("expected facet, got %q", fields[0])
		}

		if _, err := lex.expect("outer", "loop"); err != nil {
			return nil, info, err
		}
		base := len(vertices)
		for c := 0; c < 3; c++ {
			vf, err := lex.expect("vertex")
			if err != nil {
				return nil, info, err
			}
			if len(vf) != 4 {
				return nil, info, lex.errorf("vertex needs 3 coordinates")
			}
			var p [3]float64
			for i := range p {
				if p[i], err = parseCoord(vf[i+1]); err != nil {
					return nil, info, lex.errorf("%v", err)
				}
			}
			vertices = append(vertices, mesh.Vertex{X: p[0], Y: p[1], Z: p[2]})
		}
		if _, err := lex.expect("endloop"); err != nil {
			return nil, info, err
		}
		if _, err := lex.expect("endfacet"); err != nil {
			return nil, info, err
		}
		faces = append(faces, mesh.Face{base, base + 1, base + 2})
	}
	if err := lex.sc.Err(); err != nil {
		return nil, info, fmt.Errorf("reading STL: %w", err)
	}
	info.Triangles = len(faces)

	m, err := mesh.New(vertices, faces)
	if err != nil {
		return nil, info, err
	}
	return m, info, nil
}

// lineAt returns the 1-based line n of data.
func lineAt(data []byte, n int) string {
	for i := 1; i < n; i++ {
		j := bytes.IndexByte(data, '\n')
		if j < 0 {
			return ""
		}
		data = data[j+1:]
	}
	if j := bytes.IndexByte(data, '\n'); j >= 0 {
		data = data[:j]
	}
	return string(data)
}

// WriteSTL writes m as binary STL. Facet normals are computed from the
// winding; the header carries name.
func WriteSTL(w io.Writer, m *mesh.Triangulation, name string) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(encoding.UTF8ToFixedString(name, stlHeaderSize)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.FaceCount())); err != nil {
		return err
	}

	var rec [stlRecordSize]byte
	put := func(off int, v float64) {
		binary.LittleEndian.PutUint32(rec[off:], gomath.Float32bits(float32(v)))
	}
	for f := range m.Faces {
		a, b, c := m.Triangle(f)
		n := geom.Normal(a, b, c)
		put(0, n.X)
		put(4, n.Y)
		put(8, n.Z)
		for i, p := range [3]mesh.Vertex{a, b, c} {
			off := 12 + i*12
			put(off, p.X)
			put(off+4, p.Y)
			put(off+8, p.Z)
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
