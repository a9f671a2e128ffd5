// Package sprite holds the read-only source image the geometry pipeline traces.
package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("sprite: image has no pixels")

// Image is an immutable alpha snapshot of a sprite.
// Pixel (0, 0) is the top-left corner.
type Image struct {
	width  int
	height int
	alpha  []uint8
	path   string
	frame  int
}

// LoadOptions controls how a file is turned into an Image.
type LoadOptions struct {
	// MagentaKey treats pure magenta pixels as fully transparent.
	// Used for BMP sprites that carry no alpha channel.
	MagentaKey bool

	// Frame selects the frame of an .spr sprite sheet.
	Frame int
}

// FromImage snapshots the alpha channel of img.
func FromImage(img image.Image) (*Image, error) {
	return fromImage(img, LoadOptions{})
}

// FromAlpha builds an Image from a row-major alpha plane.
// The slice is copied.
func FromAlpha(width, height int, alpha []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(alpha) != width*height {
		return nil, fmt.Errorf("sprite: alpha plane has %d values, want %d", len(alpha), width*height)
	}
	a := make([]uint8, len(alpha))
	copy(a, alpha)
	return &Image{width: width, height: height, alpha: a}, nil
}

// Decode reads the picture at path. TGA and SPR are picked by extension,
// every other format goes through the registered image decoders (png, jpeg,
// gif, bmp, tiff, webp). frame only applies to .spr sheets.
func Decode(path string, frame int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(data))
	case ".spr":
		img, err = DecodeSPR(data, frame)
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Load decodes a sprite from disk and snapshots its alpha channel.
func Load(path string, opts LoadOptions) (*Image, error) {
	img, err := Decode(path, opts.Frame)
	if err != nil {
		return nil, err
	}

	s, err := fromImage(img, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	s.frame = opts.Frame
	return s, nil
}

func fromImage(img image.Image, opts LoadOptions) (*Image, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	s := &Image{
		width:  b.Dx(),
		height: b.Dy(),
		alpha:  make([]uint8, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			a := uint8(a16 >> 8)
			if opts.MagentaKey && IsMagentaKey(uint8(r16>>8), uint8(g16>>8), uint8(b16>>8)) {
				a = 0
			}
			s.alpha[(y-b.Min.Y)*s.width+(x-b.Min.X)] = a
		}
	}
	return s, nil
}

// Width returns the image width in pixels.
func (s *Image) Width() int { return s.width }

// Height returns the image height in pixels.
func (s *Image) Height() int { return s.height }

// Path returns the file the image was loaded from, if any.
func (s *Image) Path() string { return s.path }

// Frame returns the sheet frame the image was loaded from.
func (s *Image) Frame() int { return s.frame }

// Alpha returns the alpha of pixel (x, y). Out of range pixels are transparent.
func (s *Image) Alpha(x, y int) uint8 {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0
	}
	return s.alpha[y*s.width+x]
}

// Solid reports whether pixel (x, y) passes the alpha threshold.
func (s *Image) Solid(x, y int, threshold uint8) bool {
	return s.Alpha(x, y) >= threshold
}

// CountSolid returns the number of pixels passing the alpha threshold.
func (s *Image) CountSolid(threshold uint8) int {
	n := 0
	for _, a := range s.alpha {
		if a >= threshold {
			n++
		}
	}
	return n
}

// IsMagentaKey checks if an RGB color matches the magenta transparency key.
// Uses tolerance (R >= 250, G <= 10, B >= 250) to absorb BMP decoding variations.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}
