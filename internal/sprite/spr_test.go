package sprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// sheet builds a v2.1 sprite sheet with two RLE indexed frames and one
// true-color frame:
//
//	frame 0: 2x1 indices [0 5]
//	frame 1: 2x2 indices [5 5 0 0]
//	frame 2: 1x1 ABGR alpha 0x80
func sheet() []byte {
	var buf bytes.Buffer
	buf.WriteString("SP")
	buf.Write([]byte{1, 2}) // minor, major
	u16 := func(v int) { binary.Write(&buf, binary.LittleEndian, uint16(v)) }

	u16(2) // indexed
	u16(1) // true-color

	u16(2)
	u16(1)
	u16(3)
	buf.Write([]byte{0, 1, 5})

	u16(2)
	u16(2)
	u16(4)
	buf.Write([]byte{5, 5, 0, 2})

	u16(1)
	u16(1)
	buf.Write([]byte{0x80, 30, 20, 10})

	palette := make([]byte, sprPaletteSize)
	copy(palette[5*4:], []byte{10, 20, 30, 0})
	buf.Write(palette)
	return buf.Bytes()
}

func TestDecodeSPRIndexed(t *testing.T) {
	img, err := DecodeSPR(sheet(), 0)
	if err != nil {
		t.Fatalf("DecodeSPR failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Fatalf("size = %v, want 2x1", b)
	}
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("index 0 alpha = %d, want 0", a)
	}
	c := img.NRGBAAt(1, 0)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Errorf("index 5 = %v, want opaque palette color", c)
	}
}

func TestDecodeSPRSkipsFrames(t *testing.T) {
	img, err := DecodeSPR(sheet(), 1)
	if err != nil {
		t.Fatalf("DecodeSPR failed: %v", err)
	}
	want := []uint8{255, 255, 0, 0}
	for i, a := range want {
		if got := img.NRGBAAt(i%2, i/2).A; got != a {
			t.Errorf("pixel %d alpha = %d, want %d", i, got, a)
		}
	}

	tc, err := DecodeSPR(sheet(), 2)
	if err != nil {
		t.Fatalf("DecodeSPR true-color failed: %v", err)
	}
	c := tc.NRGBAAt(0, 0)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 0x80 {
		t.Errorf("true-color pixel = %v", c)
	}
}

func TestDecodeSPRErrors(t *testing.T) {
	v10 := make([]byte, 4+sprPaletteSize)
	copy(v10, "SP\x00\x01")

	tests := []struct {
		name  string
		data  []byte
		frame int
		want  error
	}{
		{"short", []byte("SP"), 0, ErrSPRTruncated},
		{"magic", []byte("XX\x01\x02"), 0, ErrSPRMagic},
		{"version 1.0", v10, 0, ErrSPRVersion},
		{"no palette", []byte("SP\x01\x02\x00\x00"), 0, ErrSPRTruncated},
		{"frame too high", sheet(), 3, ErrSPRFrame},
		{"negative frame", sheet(), -1, ErrSPRFrame},
		{"cut pixels", append(sheet()[:16], make([]byte, sprPaletteSize)...), 1, ErrSPRTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSPR(tt.data, tt.frame); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExpandZeroRuns(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		n    int
		want []byte
	}{
		{"literal", []byte{1, 2}, 2, []byte{1, 2}},
		{"run", []byte{0, 3, 7}, 4, []byte{0, 0, 0, 7}},
		{"single zero", []byte{0, 0, 7}, 2, []byte{0, 7}},
		{"padded", []byte{4}, 3, []byte{4, 0, 0}},
		{"cut", []byte{0, 9}, 2, []byte{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandZeroRuns(tt.src, tt.n); !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadSPRFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.spr")
	if err := os.WriteFile(path, sheet(), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path, LoadOptions{Frame: 1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Width() != 2 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", s.Width(), s.Height())
	}
	if got := s.CountSolid(128); got != 2 {
		t.Errorf("solid = %d, want 2", got)
	}
}
