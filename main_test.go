package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestPrepareSession_Cache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.blmp")
	a := makePicture(5, 1, []byte{10, 20, 30, 40, 50}, map[int]Chrominance{0: {200, 50}})
	b := makePicture(5, 1, []byte{10, 20, 30, 40, 50}, map[int]Chrominance{4: {50, 200}})

	sa := NewSession(a)
	if err := prepareSession(sa, path, nil); err != nil {
		t.Fatalf("prepareSession(a): %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cache not written: %v", err)
	}

	// Повторный запуск для того же изображения берёт карту из кэша.
	again := NewSession(a)
	if err := prepareSession(again, path, func() bool { return true }); err != nil {
		t.Fatalf("cached prepareSession: %v", err)
	}
	if !reflect.DeepEqual(again.BlendMap(), sa.BlendMap()) {
		t.Fatalf("cached map differs")
	}

	// Кэш того же размера от другого изображения не подходит: карта строится заново.
	sb := NewSession(b)
	if err := prepareSession(sb, path, nil); err != nil {
		t.Fatalf("prepareSession(b): %v", err)
	}
	want, _ := BuildBlendMap(b, nil)
	if !reflect.DeepEqual(sb.BlendMap(), want) {
		t.Fatalf("stale cache was used for another picture")
	}
	if got := sb.BlendMap().Blends(4, 0); len(got) != 0 {
		t.Fatalf("seed cell populated: %v", got)
	}
}
