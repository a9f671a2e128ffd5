// Package export writes installed sprite geometry to glTF, GLB and OBJ files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/spritemesh/internal/build"
)

// ErrUnknownFormat is returned for unsupported output extensions.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format is an output file format.
type Format string

const (
	GLB  Format = "glb"
	GLTF Format = "gltf"
	OBJ  Format = "obj"
)

// ParseFormat validates a format name such as "glb" or ".obj".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case GLB, GLTF, OBJ:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options controls what gets exported.
type Options struct {
	// Colliders adds collider geometry next to the render mesh.
	Colliders bool
}

// Save writes an installed target to path in the format given by its extension.
func Save(path, name string, in build.Installed, opts Options) error {
	if in.Mesh == nil {
		return errors.New("export: nothing installed")
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	switch format {
	case OBJ:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := WriteOBJ(f, name, in, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		doc, err := Document(name, in, opts)
		if err != nil {
			return err
		}
		return saveDocument(doc, path, format == GLB)
	}
}
