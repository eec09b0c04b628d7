package main

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary — сводка по карте смешивания.
type Summary struct {
	Targets      int // ахроматические пиксели
	Covered      int
	Unreached    int
	Lengths      [MaxBlends + 1]int // гистограмма длин списков
	MeanDistance float64
	StdDistance  float64
	MaxDistance  float64
}

// Summarize считает сводку по карте. Пиксели-семена не учитываются.
func Summarize(m *BlendMap, p *Picture) Summary {
	var s Summary
	var nearest []float64
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if p.IsChromatic(x, y) {
				continue
			}
			s.Targets++
			list := m.Blends(x, y)
			s.Lengths[len(list)]++
			if len(list) == 0 {
				s.Unreached++
				continue
			}
			s.Covered++
			nearest = append(nearest, float64(list[0].Distance))
		}
	}
	if len(nearest) > 0 {
		s.MeanDistance, s.StdDistance = stat.MeanStdDev(nearest, nil)
		if len(nearest) == 1 {
			s.StdDistance = 0
		}
		s.MaxDistance = floats.Max(nearest)
	}
	return s
}
