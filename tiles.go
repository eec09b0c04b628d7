package main

import (
	"image"
	"runtime"
	"sync"
)

const DefaultTileSize = 64

// Tiles режет прямоугольник w×h на квадраты со стороной size.
func Tiles(w, h, size int) []image.Rectangle {
	if size <= 0 {
		size = DefaultTileSize
	}
	var out []image.Rectangle
	for y := 0; y < h; y += size {
		for x := 0; x < w; x += size {
			out = append(out, image.Rect(x, y, min(x+size, w), min(y+size, h)))
		}
	}
	return out
}

// RenderTiles раскрашивает dst параллельно: области не пересекаются,
// поэтому воркерам не нужны блокировки.
func RenderTiles(r *Renderer, dst *Picture, m *BlendMap, tileSize, workers int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tiles := Tiles(dst.Width, dst.Height, tileSize)
	workers = min(workers, len(tiles))

	tileCh := make(chan image.Rectangle)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rect := range tileCh {
				r.RenderRegion(dst, m, rect)
			}
		}()
	}
	for _, t := range tiles {
		tileCh <- t
	}
	close(tileCh)
	wg.Wait()
	logger().Debug("рендер завершён", "tiles", len(tiles), "workers", workers, "blend", r.BlendFactor)
}
