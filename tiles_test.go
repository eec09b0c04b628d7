package main

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestTiles_Cover(t *testing.T) {
	tiles := Tiles(130, 70, 64)
	if len(tiles) != 6 {
		t.Fatalf("got %d tiles, want 6", len(tiles))
	}
	area := 0
	for i, a := range tiles {
		area += a.Dx() * a.Dy()
		for _, b := range tiles[i+1:] {
			if a.Overlaps(b) {
				t.Fatalf("tiles %v and %v overlap", a, b)
			}
		}
	}
	if area != 130*70 {
		t.Fatalf("tiles cover %d pixels, want %d", area, 130*70)
	}
	if len(Tiles(0, 0, 64)) != 0 {
		t.Fatalf("empty picture produced tiles")
	}
}

func TestRenderTiles_MatchesSingleRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	p := randomPicture(rng, 45, 31, 9)
	m, err := BuildBlendMap(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := NewRenderer(3)

	whole := p.Clone()
	r.RenderRegion(whole, m, whole.Bounds())

	for _, tc := range []struct{ tile, workers int }{{8, 4}, {7, 1}, {100, 3}, {0, 0}} {
		tiled := p.Clone()
		RenderTiles(r, tiled, m, tc.tile, tc.workers)
		if !reflect.DeepEqual(tiled, whole) {
			t.Fatalf("tile %d workers %d: result differs from a single pass", tc.tile, tc.workers)
		}
	}
}
