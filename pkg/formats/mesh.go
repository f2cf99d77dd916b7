package formats

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/sdfgen/pkg/mesh"
)

// ErrUnsupportedExtension is returned for mesh files that are neither .obj
// nor .stl.
var ErrUnsupportedExtension = errors.New("unsupported mesh file extension")

// MeshFormat identifies a mesh file format.
type MeshFormat int

// Mesh formats.
const (
	FormatUnknown MeshFormat = iota
	FormatOBJ
	FormatSTL
)

// String returns the conventional extension without the dot.
func (f MeshFormat) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatSTL:
		return "stl"
	default:
		return "unknown"
	}
}

// FormatForPath picks the format from the file extension, ignoring case.
func FormatForPath(path string) (MeshFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatOBJ, nil
	case ".stl":
		return FormatSTL, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(path))
	}
}

// MeshInfo carries reader details that do not belong to the mesh itself.
type MeshInfo struct {
	Format MeshFormat
	OBJ    OBJStats
	STL    STLInfo
}

// ReadMeshFile loads a mesh, dispatching on the file extension.
func ReadMeshFile(path string) (*mesh.Triangulation, MeshInfo, error) {
	format, err := FormatForPath(path)
	info := MeshInfo{Format: format}
	if err != nil {
		return nil, info, err
	}

	var m *mesh.Triangulation
	switch format {
	case FormatOBJ:
		in, err := os.Open(path)
		if err != nil {
			return nil, info, fmt.Errorf("open %s: %w", path, err)
		}
		defer in.Close()
		m, info.OBJ, err = ParseOBJ(bufio.NewReader(in))
		if err != nil {
			return nil, info, fmt.Errorf("%s: %w", path, err)
		}
	case FormatSTL:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, info, fmt.Errorf("open %s: %w", path, err)
		}
		m, info.STL, err = ParseSTL(data)
		if err != nil {
			return nil, info, fmt.Errorf("%s: %w", path, err)
		}
	}
	return m, info, nil
}

// WriteMeshFile saves m in the format chosen by the extension of path.
func WriteMeshFile(path string, m *mesh.Triangulation) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	switch format {
	case FormatOBJ:
		err = WriteOBJ(out, m)
	case FormatSTL:
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		err = WriteSTL(out, m, name)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
