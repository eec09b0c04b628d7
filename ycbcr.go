package main

import (
	"image"
	"math"
)

// YCbCr хранит пиксель в пространстве YCbCr (CCIR 601, полный диапазон 0..255).
type YCbCr struct {
	Y, Cb, Cr byte
	A         byte
}

// Picture — сетка яркости/цветности, над которой работает раскрашивание.
type Picture struct {
	Width  int
	Height int
	Pix    []YCbCr
}

func clampByte(v float64) byte {
	return byte(math.Min(255, math.Max(0, math.RoundToEven(v))))
}

// YCbCrFromRGB переводит цвет RGB в YCbCr.
func YCbCrFromRGB(c ColorRGBA) YCbCr {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return YCbCr{
		Y:  clampByte(0.299*r + 0.587*g + 0.114*b),
		Cb: clampByte(-0.1687*r - 0.3313*g + 0.5*b + 128),
		Cr: clampByte(0.5*r - 0.4187*g - 0.0813*b + 128),
		A:  c.A,
	}
}

// RGB переводит цвет обратно в RGB.
func (c YCbCr) RGB() ColorRGBA {
	y := float64(c.Y)
	cb := float64(c.Cb) - 128
	cr := float64(c.Cr) - 128
	return ColorRGBA{
		R: clampByte(y + 1.402*cr),
		G: clampByte(y - 0.34414*cb - 0.71414*cr),
		B: clampByte(y + 1.772*cb),
		A: c.A,
	}
}

// Chroma возвращает цветность пикселя.
func (c YCbCr) Chroma() Chrominance {
	return Chrominance{Cb: c.Cb, Cr: c.Cr}
}

// NewPicture конвертирует изображение в сетку YCbCr.
func NewPicture(img *ImageData) *Picture {
	p := &Picture{Width: img.Width, Height: img.Height, Pix: make([]YCbCr, len(img.Pix))}
	for i, c := range img.Pix {
		p.Pix[i] = YCbCrFromRGB(c)
	}
	return p
}

// ImageData собирает RGB-изображение из сетки.
func (p *Picture) ImageData() *ImageData {
	out := &ImageData{Width: p.Width, Height: p.Height, Pix: make([]ColorRGBA, len(p.Pix))}
	for i, c := range p.Pix {
		out.Pix[i] = c.RGB()
	}
	return out
}

// At возвращает пиксель; координаты вне сетки — ошибка вызывающего.
func (p *Picture) At(x, y int) YCbCr {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		panic("picture: координаты вне изображения")
	}
	return p.Pix[y*p.Width+x]
}

// IsChromatic сообщает, несёт ли пиксель собственный цвет (семя распространения).
func (p *Picture) IsChromatic(x, y int) bool {
	return p.At(x, y).Chroma() != Neutral
}

// Bounds возвращает прямоугольник всего изображения.
func (p *Picture) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// Clone делает независимую копию сетки.
func (p *Picture) Clone() *Picture {
	c := &Picture{Width: p.Width, Height: p.Height, Pix: make([]YCbCr, len(p.Pix))}
	copy(c.Pix, p.Pix)
	return c
}
