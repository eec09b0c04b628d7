package main

import "testing"

func TestYCbCr_GrayIsNeutral(t *testing.T) {
	for _, v := range []byte{0, 1, 64, 128, 200, 255} {
		c := YCbCrFromRGB(ColorRGBA{v, v, v, 255})
		if c.Chroma() != Neutral || c.Y != v {
			t.Fatalf("gray %d converted to %+v", v, c)
		}
		if back := c.RGB(); back != (ColorRGBA{v, v, v, 255}) {
			t.Fatalf("gray %d converted back to %+v", v, back)
		}
	}
}

func TestYCbCr_RoundTrip(t *testing.T) {
	for _, c := range []ColorRGBA{
		{255, 0, 0, 255},
		{0, 255, 0, 128},
		{0, 0, 255, 0},
		{120, 80, 40, 255},
		{30, 160, 220, 255},
	} {
		back := YCbCrFromRGB(c).RGB()
		for i, pair := range [][2]byte{{c.R, back.R}, {c.G, back.G}, {c.B, back.B}} {
			if d := absInt(int(pair[0]) - int(pair[1])); d > 3 {
				t.Fatalf("%+v -> %+v: channel %d off by %d", c, back, i, d)
			}
		}
		if back.A != c.A {
			t.Fatalf("alpha not preserved: %+v -> %+v", c, back)
		}
	}
}

func TestPicture_ImageData(t *testing.T) {
	img := &ImageData{Width: 2, Height: 1, Pix: []ColorRGBA{{10, 10, 10, 255}, {200, 30, 30, 255}}}
	p := NewPicture(img)
	if p.IsChromatic(0, 0) || !p.IsChromatic(1, 0) {
		t.Fatalf("unexpected chromatic flags: %+v", p.Pix)
	}
	if got := p.ImageData(); got.Pix[0] != img.Pix[0] {
		t.Fatalf("gray pixel changed: %+v", got.Pix[0])
	}
}

func TestClampByte(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want byte
	}{
		{-3, 0}, {0.5, 0}, {1.5, 2}, {2.5, 2}, {106.5, 106}, {107.5, 108}, {254.6, 255}, {300, 255},
	} {
		if got := clampByte(tc.in); got != tc.want {
			t.Fatalf("clampByte(%g) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
