package main

import (
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	MinBlendFactor     = 1
	MaxBlendFactor     = 6
	DefaultBlendFactor = 4
)

// ErrBlendFactor — коэффициент смешивания вне [MinBlendFactor, MaxBlendFactor].
var ErrBlendFactor = errors.New("коэффициент смешивания вне диапазона")

// Renderer превращает списки кандидатов в итоговую цветность.
// Чем больше BlendFactor, тем резче границы цветов.
type Renderer struct {
	BlendFactor int
}

// NewRenderer проверяет коэффициент смешивания.
func NewRenderer(blendFactor int) (*Renderer, error) {
	if blendFactor < MinBlendFactor || blendFactor > MaxBlendFactor {
		return nil, fmt.Errorf("%w: %d", ErrBlendFactor, blendFactor)
	}
	return &Renderer{BlendFactor: blendFactor}, nil
}

// Weight — вес кандидата на расстоянии distance.
func (r *Renderer) Weight(distance int) float64 {
	if distance == 0 {
		return 2.0
	}
	return math.Pow(float64(distance), -float64(r.BlendFactor))
}

// Mix смешивает кандидатов; ok == false для пустого списка.
func (r *Renderer) Mix(blends []Blend) (c Chrominance, ok bool) {
	if len(blends) == 0 {
		return Neutral, false
	}
	var cb, cr, sum float64
	for _, b := range blends {
		f := r.Weight(b.Distance)
		cb += f * float64(b.Chroma.Cb)
		cr += f * float64(b.Chroma.Cr)
		sum += f
	}
	return Chrominance{Cb: clampByte(cb / sum), Cr: clampByte(cr / sum)}, true
}

// RenderRegion записывает смешанную цветность в пиксели dst внутри rect.
// Яркость не меняется; пиксели с пустым списком (семена и недостижимые)
// остаются как есть. rect обязан лежать внутри изображения.
func (r *Renderer) RenderRegion(dst *Picture, m *BlendMap, rect image.Rectangle) {
	if dst.Width != m.Width || dst.Height != m.Height {
		panic("render: размеры карты и изображения различаются")
	}
	if !rect.In(dst.Bounds()) {
		panic(fmt.Sprintf("render: область %v вне изображения %dx%d", rect, dst.Width, dst.Height))
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c, ok := r.Mix(m.Blends(x, y))
			if !ok {
				continue
			}
			px := &dst.Pix[y*dst.Width+x]
			px.Cb, px.Cr = c.Cb, c.Cr
		}
	}
}
