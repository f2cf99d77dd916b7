package formats

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/sdfgen/pkg/levelset"
)

// VTK XML element layout for a RectilinearGrid file.
type (
	vtkFile struct {
		XMLName   xml.Name    `xml:"VTKFile"`
		Type      string      `xml:"type,attr"`
		Version   string      `xml:"version,attr"`
		ByteOrder string      `xml:"byte_order,attr"`
		Grid      vtkRectGrid `xml:"RectilinearGrid"`
	}
	vtkRectGrid struct {
		WholeExtent string   `xml:"WholeExtent,attr"`
		Piece       vtkPiece `xml:"Piece"`
	}
	vtkPiece struct {
		Extent      string         `xml:"Extent,attr"`
		PointData   vtkPointData   `xml:"PointData"`
		CellData    struct{}       `xml:"CellData"`
		Coordinates vtkCoordinates `xml:"Coordinates"`
	}
	vtkPointData struct {
		Scalars string         `xml:"Scalars,attr"`
		Arrays  []vtkDataArray `xml:"DataArray"`
	}
	vtkCoordinates struct {
		Arrays []vtkDataArray `xml:"DataArray"`
	}
	vtkDataArray struct {
		Type   string `xml:"type,attr"`
		Name   string `xml:"Name,attr"`
		Format string `xml:"format,attr"`
		Data   string `xml:",chardata"`
	}
)

// vtkScalarName is the point-data array holding the distance values.
const vtkScalarName = "phi"

// WriteVTR writes f as an ASCII VTK XML RectilinearGrid (.vtr) with a
// point-data array named phi. Extents are 0-based. Unreached (+Inf) cells
// are written as the largest finite float64, which VTK readers accept.
func WriteVTR(w io.Writer, f *levelset.Field) error {
	if err := f.Check(); err != nil {
		return err
	}
	extent := fmt.Sprintf("0 %d 0 %d 0 %d", f.NI-1, f.NJ-1, f.NK-1)
	coords := func(name string, origin float64, n int) vtkDataArray {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = origin + float64(i)*f.Spacing
		}
		return vtkDataArray{Type: "Float64", Name: name, Format: "ascii", Data: joinFloats(vals)}
	}

	doc := vtkFile{
		Type:      "RectilinearGrid",
		Version:   "0.1",
		ByteOrder: "LittleEndian",
		Grid: vtkRectGrid{
			WholeExtent: extent,
			Piece: vtkPiece{
				Extent: extent,
				PointData: vtkPointData{
					Scalars: vtkScalarName,
					Arrays: []vtkDataArray{{
						Type: "Float64", Name: vtkScalarName, Format: "ascii",
						Data: joinFloats(f.Values),
					}},
				},
				Coordinates: vtkCoordinates{Arrays: []vtkDataArray{
					coords("x", f.Origin.X, f.NI),
					coords("y", f.Origin.Y, f.NJ),
					coords("z", f.Origin.Z, f.NK),
				}},
			},
		},
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode VTK: %w", err)
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// WriteVTRFile writes f as a .vtr file at path.
func WriteVTRFile(path string, f *levelset.Field) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteVTR(out, f)
}

func joinFloats(vals []float64) string {
	var sb strings.Builder
	buf := make([]byte, 0, 32)
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case gomath.IsInf(v, 1):
			v = gomath.MaxFloat64
		case gomath.IsInf(v, -1):
			v = -gomath.MaxFloat64
		}
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		sb.Write(buf)
	}
	return sb.String()
}
