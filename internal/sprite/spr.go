package sprite

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// SPR errors.
var (
	ErrSPRMagic     = errors.New("spr: expected 'SP' magic")
	ErrSPRVersion   = errors.New("spr: unsupported version")
	ErrSPRTruncated = errors.New("spr: truncated data")
	ErrSPRFrame     = errors.New("spr: frame out of range")
)

const sprPaletteSize = 256 * 4

// DecodeSPR decodes one frame of an SP sprite sheet. Indexed frames come
// first, then true-color frames; frame counts across both. Palette index 0
// is transparent, every other indexed pixel is opaque.
//
// Versions 1.1 through 2.1 are supported; 2.1 stores indexed frames
// run-length encoded.
func DecodeSPR(data []byte, frame int) (*image.NRGBA, error) {
	if len(data) < 4 {
		return nil, ErrSPRTruncated
	}
	if data[0] != 'S' || data[1] != 'P' {
		return nil, ErrSPRMagic
	}
	minor, major := data[2], data[3]
	if major < 1 || major > 2 || (major == 1 && minor < 1) {
		return nil, fmt.Errorf("%w: %d.%d", ErrSPRVersion, major, minor)
	}
	if len(data) < 4+sprPaletteSize {
		return nil, ErrSPRTruncated
	}

	r := &sprReader{data: data[:len(data)-sprPaletteSize], off: 4}
	palette := data[len(data)-sprPaletteSize:]

	indexed, err := r.u16()
	if err != nil {
		return nil, err
	}
	trueColor := 0
	if major >= 2 {
		if trueColor, err = r.u16(); err != nil {
			return nil, err
		}
	}
	if frame < 0 || frame >= indexed+trueColor {
		return nil, fmt.Errorf("%w: %d of %d", ErrSPRFrame, frame, indexed+trueColor)
	}

	rle := major == 2 && minor >= 1
	for i := 0; i < indexed; i++ {
		img, err := r.indexedFrame(palette, rle, i == frame)
		if err != nil {
			return nil, fmt.Errorf("indexed frame %d: %w", i, err)
		}
		if i == frame {
			return img, nil
		}
	}
	for i := indexed; i < indexed+trueColor; i++ {
		img, err := r.trueColorFrame(i == frame)
		if err != nil {
			return nil, fmt.Errorf("true-color frame %d: %w", i-indexed, err)
		}
		if i == frame {
			return img, nil
		}
	}
	return nil, ErrSPRFrame
}

type sprReader struct {
	data []byte
	off  int
}

func (r *sprReader) u16() (int, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint16(b)), nil
}

func (r *sprReader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, ErrSPRTruncated
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// size reads a frame header. Blank frames (0 or 0xFFFF) carry no pixels.
func (r *sprReader) size() (w, h int, blank bool, err error) {
	if w, err = r.u16(); err != nil {
		return
	}
	if h, err = r.u16(); err != nil {
		return
	}
	blank = w == 0 || h == 0 || w == 0xFFFF || h == 0xFFFF
	return
}

// indexedFrame reads one palette frame, decoding it only when keep is set.
func (r *sprReader) indexedFrame(palette []byte, rle, keep bool) (*image.NRGBA, error) {
	w, h, blank, err := r.size()
	if err != nil {
		return nil, err
	}
	if blank {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	n := w * h
	var raw []byte
	if rle {
		size, err := r.u16()
		if err != nil {
			return nil, err
		}
		if raw, err = r.take(size); err != nil {
			return nil, err
		}
	} else if raw, err = r.take(n); err != nil {
		return nil, err
	}
	if !keep {
		return nil, nil
	}

	indices := raw
	if rle {
		indices = expandZeroRuns(raw, n)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, idx := range indices {
		if idx == 0 {
			continue
		}
		c := palette[int(idx)*4:]
		img.SetNRGBA(i%w, i/w, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
	}
	return img, nil
}

// expandZeroRuns undoes the sheet's run-length coding, where only index 0
// is compressed: 0x00 N stands for N zeros (0x00 0x00 for a single one).
// The result is padded or cut to n.
func expandZeroRuns(src []byte, n int) []byte {
	out := make([]byte, 0, n)
	for i := 0; i < len(src) && len(out) < n; i++ {
		if src[i] != 0 {
			out = append(out, src[i])
			continue
		}
		if i+1 >= len(src) {
			break
		}
		i++
		count := max(int(src[i]), 1)
		for j := 0; j < count && len(out) < n; j++ {
			out = append(out, 0)
		}
	}
	for len(out) < n {
		out = append(out, 0)
	}
	return out
}

// trueColorFrame reads one ABGR frame, decoding it only when keep is set.
func (r *sprReader) trueColorFrame(keep bool) (*image.NRGBA, error) {
	w, h, blank, err := r.size()
	if err != nil {
		return nil, err
	}
	if blank {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}
	abgr, err := r.take(w * h * 4)
	if err != nil {
		return nil, err
	}
	if !keep {
		return nil, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		p := abgr[i*4:]
		img.SetNRGBA(i%w, i/w, color.NRGBA{R: p[3], G: p[2], B: p[1], A: p[0]})
	}
	return img, nil
}
