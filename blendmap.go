package main

import (
	"errors"
	"fmt"
)

// MaxBlends — сколько кандидатов хранится на один пиксель.
const MaxBlends = 3

// ErrCancelled возвращается, если построение карты прервано.
var ErrCancelled = errors.New("построение карты смешивания отменено")

// Blend — цветность-кандидат и расстояние до породившего её семени
// (сумма модулей разностей яркости вдоль пути).
type Blend struct {
	Chroma   Chrominance
	Distance int
}

func (b Blend) String() string {
	return fmt.Sprintf("Cb = %d ; Cr = %d ; Distance = %d", b.Chroma.Cb, b.Chroma.Cr, b.Distance)
}

// BlendMap хранит для каждого пикселя до MaxBlends кандидатов.
// Ячейки исходно цветных пикселей всегда пусты.
type BlendMap struct {
	Width  int
	Height int
	cells  [][]Blend
}

func newBlendMap(w, h int) *BlendMap {
	return &BlendMap{Width: w, Height: h, cells: make([][]Blend, w*h)}
}

func (m *BlendMap) index(x, y int) int {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		panic(fmt.Sprintf("blendmap: (%d,%d) вне карты %dx%d", x, y, m.Width, m.Height))
	}
	return y*m.Width + x
}

// Blends возвращает кандидатов пикселя в порядке записи. Срез только для чтения.
func (m *BlendMap) Blends(x, y int) []Blend {
	return m.cells[m.index(x, y)]
}

// tryAdd записывает кандидата, если в ячейке есть место и нет близкой цветности.
func (m *BlendMap) tryAdd(x, y int, b Blend) bool {
	i := m.index(x, y)
	list := m.cells[i]
	if len(list) >= MaxBlends {
		return false
	}
	for _, e := range list {
		if e.Chroma.IsClose(b.Chroma) {
			return false
		}
	}
	if list == nil {
		list = make([]Blend, 0, MaxBlends)
	}
	m.cells[i] = append(list, b)
	return true
}

// BuildBlendMap распространяет цветность от цветных пикселей к ахроматическим
// (алгоритм Дейкстры с несколькими источниками по 4-связной сетке, вес ребра —
// модуль разности яркости). cancelled опрашивается перед каждым извлечением;
// при отмене возвращается ErrCancelled и частичная карта выбрасывается.
func BuildBlendMap(p *Picture, cancelled func() bool) (*BlendMap, error) {
	w, h := p.Width, p.Height
	gray := make([]bool, len(p.Pix))
	var q BucketQueue
	seeds := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := p.Pix[y*w+x].Chroma()
			if c == Neutral {
				gray[y*w+x] = true
				continue
			}
			q.Push(0, Vertex{X: x, Y: y, Blend: Blend{Chroma: c}})
			seeds++
		}
	}
	logger().Debug("построение карты смешивания", "width", w, "height", h, "seeds", seeds)

	m := newBlendMap(w, h)
	pops := 0
	for !q.IsEmpty() {
		if cancelled != nil && cancelled() {
			logger().Debug("построение отменено", "pops", pops)
			return nil, ErrCancelled
		}
		_, v := q.PopMin()
		pops++

		if gray[v.Y*w+v.X] && !m.tryAdd(v.X, v.Y, v.Blend) {
			continue
		}
		relax(p, gray, &q, v)
	}
	logger().Debug("карта смешивания построена", "pops", pops)
	return m, nil
}

var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// relax добавляет в очередь ахроматических соседей вершины.
func relax(p *Picture, gray []bool, q *BucketQueue, v Vertex) {
	w := p.Width
	luma := int(p.Pix[v.Y*w+v.X].Y)
	for _, d := range neighbours {
		nx, ny := v.X+d[0], v.Y+d[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= p.Height || !gray[ny*w+nx] {
			continue
		}
		dist := v.Blend.Distance + absInt(luma-int(p.Pix[ny*w+nx].Y))
		q.Push(dist, Vertex{X: nx, Y: ny, Blend: Blend{Chroma: v.Blend.Chroma, Distance: dist}})
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
