package main

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestNewRenderer_Range(t *testing.T) {
	for f := -1; f <= 8; f++ {
		_, err := NewRenderer(f)
		valid := f >= MinBlendFactor && f <= MaxBlendFactor
		if valid && err != nil {
			t.Fatalf("NewRenderer(%d): %v", f, err)
		}
		if !valid && !errors.Is(err, ErrBlendFactor) {
			t.Fatalf("NewRenderer(%d): got %v, want ErrBlendFactor", f, err)
		}
	}
}

func TestRenderer_Weight(t *testing.T) {
	r := &Renderer{BlendFactor: 2}
	for _, tc := range []struct {
		distance int
		want     float64
	}{
		{0, 2.0},
		{1, 1.0},
		{2, 0.25},
		{10, 0.01},
	} {
		if got := r.Weight(tc.distance); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Weight(%d) = %g, want %g", tc.distance, got, tc.want)
		}
	}
}

func TestRenderer_Mix(t *testing.T) {
	for _, tc := range []struct {
		name   string
		factor int
		blends []Blend
		want   Chrominance
	}{
		{"single", 4, []Blend{{Chrominance{200, 50}, 37}}, Chrominance{200, 50}},
		{"zero_distance_double_weight", 3,
			[]Blend{{Chrominance{100, 100}, 0}, {Chrominance{200, 200}, 1}},
			Chrominance{133, 133}},
		{"inverse_distance", 1,
			[]Blend{{Chrominance{90, 180}, 2}, {Chrominance{180, 90}, 4}},
			Chrominance{120, 150}},
		{"half_rounds_to_even", 4,
			[]Blend{{Chrominance{100, 50}, 0}, {Chrominance{113, 50}, 0}},
			Chrominance{106, 50}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRenderer(tc.factor)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := r.Mix(tc.blends)
			if !ok || got != tc.want {
				t.Fatalf("Mix = %v, %v; want %v", got, ok, tc.want)
			}
		})
	}

	r, _ := NewRenderer(DefaultBlendFactor)
	if c, ok := r.Mix(nil); ok || c != Neutral {
		t.Fatalf("Mix(nil) = %v, %v; want neutral, false", c, ok)
	}
}

func TestRenderer_SharperWithHigherFactor(t *testing.T) {
	blends := []Blend{{Chrominance{200, 50}, 10}, {Chrominance{50, 200}, 20}}
	soft, _ := NewRenderer(1)
	sharp, _ := NewRenderer(6)
	cs, _ := soft.Mix(blends)
	ch, _ := sharp.Mix(blends)
	if !(ch.Cb > cs.Cb && cs.Cb < 200) {
		t.Fatalf("factor 6 gave %v, factor 1 gave %v", ch, cs)
	}
}

func TestRenderRegion_UnreachedKeepsNeutral(t *testing.T) {
	p := makePicture(2, 1, []byte{50, 60}, nil)
	m := newBlendMap(2, 1)
	r, _ := NewRenderer(DefaultBlendFactor)
	r.RenderRegion(p, m, p.Bounds())
	for x := 0; x < 2; x++ {
		if c := p.At(x, 0).Chroma(); c != Neutral {
			t.Fatalf("pixel %d got %v", x, c)
		}
	}
}

func TestRenderRegion_IdempotentAndReinvocable(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := randomPicture(rng, 20, 12, 6)
	m, err := BuildBlendMap(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	r4, _ := NewRenderer(4)
	r1, _ := NewRenderer(1)
	region := image.Rect(3, 2, 15, 10)

	once := p.Clone()
	r4.RenderRegion(once, m, region)
	twice := once.Clone()
	r4.RenderRegion(twice, m, region)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second render changed the output")
	}

	other := once.Clone()
	r1.RenderRegion(other, m, region)
	r4.RenderRegion(other, m, region)
	if !reflect.DeepEqual(once, other) {
		t.Fatalf("rendering with another factor in between changed the result")
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if !(image.Point{x, y}).In(region) && once.At(x, y) != p.At(x, y) {
				t.Fatalf("pixel (%d,%d) outside region changed", x, y)
			}
			if once.At(x, y).Y != p.At(x, y).Y {
				t.Fatalf("luma changed at (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderRegion_OutsidePanics(t *testing.T) {
	p := makePicture(2, 2, []byte{1, 2, 3, 4}, nil)
	m := newBlendMap(2, 2)
	r, _ := NewRenderer(DefaultBlendFactor)
	defer func() {
		if recover() == nil {
			t.Fatalf("region outside picture did not panic")
		}
	}()
	r.RenderRegion(p, m, image.Rect(0, 0, 3, 2))
}
