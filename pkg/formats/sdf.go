package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

// SDF format errors.
var (
	ErrMalformedSDF = errors.New("malformed SDF data")
)

// WriteSDF writes f in the plain-text SDF layout:
//
//	ni nj nk
//	ox oy oz
//	spacing
//	value        (ni*nj*nk lines, i fastest)
//
// Numbers use the shortest form that parses back to the same float64;
// unreached cells are written as +Inf.
func WriteSDF(w io.Writer, f *levelset.Field) error {
	if err := f.Check(); err != nil {
		return err
	}
	bw := bufio.NewWriterSize(w, 256*1024)
	fmt.Fprintf(bw, "%d %d %d\n", f.NI, f.NJ, f.NK)
	fmt.Fprintf(bw, "%s %s %s\n", formatFloat(f.Origin.X), formatFloat(f.Origin.Y), formatFloat(f.Origin.Z))
	fmt.Fprintf(bw, "%s\n", formatFloat(f.Spacing))

	buf := make([]byte, 0, 32)
	for _, v := range f.Values {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseSDF reads a field written by WriteSDF.
func ParseSDF(r io.Reader) (*levelset.Field, error) {
	sc := bufio.NewScanner(r)
	line := 0
	nextLine := func(what string) ([]string, error) {
		for sc.Scan() {
			line++
			if fields := strings.Fields(sc.Text()); len(fields) > 0 {
				return fields, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading SDF: %w", err)
		}
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedSDF, what)
	}

	dims, err := nextLine("dimensions")
	if err != nil {
		return nil, err
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("%w: line %d: want 3 dimensions, got %d", ErrMalformedSDF, line, len(dims))
	}
	var n [3]int
	for i, s := range dims {
		if n[i], err = strconv.Atoi(s); err != nil || n[i] < 1 {
			return nil, fmt.Errorf("%w: line %d: bad dimension %q", ErrMalformedSDF, line, s)
		}
	}

	orig, err := nextLine("origin")
	if err != nil {
		return nil, err
	}
	if len(orig) != 3 {
		return nil, fmt.Errorf("%w: line %d: want 3 origin coordinates, got %d", ErrMalformedSDF, line, len(orig))
	}
	var o [3]float64
	for i, s := range orig {
		if o[i], err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSDF, line, err)
		}
	}

	sp, err := nextLine("spacing")
	if err != nil {
		return nil, err
	}
	spacing, err := strconv.ParseFloat(sp[0], 64)
	if err != nil || len(sp) != 1 {
		return nil, fmt.Errorf("%w: line %d: bad spacing %q", ErrMalformedSDF, line, strings.Join(sp, " "))
	}

	g := levelset.Grid{
		NI: n[0], NJ: n[1], NK: n[2],
		Origin:  r3.Vec{X: o[0], Y: o[1], Z: o[2]},
		Spacing: spacing,
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSDF, err)
	}

	f := levelset.NewField(g)
	for i := range f.Values {
		fields, err := nextLine(fmt.Sprintf("value %d of %d", i+1, len(f.Values)))
		if err != nil {
			return nil, err
		}
		if f.Values[i], err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSDF, line, err)
		}
	}
	for sc.Scan() {
		line++
		if strings.TrimSpace(sc.Text()) != "" {
			return nil, fmt.Errorf("%w: line %d: trailing data", ErrMalformedSDF, line)
		}
	}
	return f, sc.Err()
}

// WriteSDFFile writes f to path, replacing any existing file.
func WriteSDFFile(path string, f *levelset.Field) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := WriteSDF(out, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ParseSDFFile reads an SDF file from disk.
func ParseSDFFile(path string) (*levelset.Field, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	f, err := ParseSDF(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
