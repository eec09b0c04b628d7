package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat — формат файла не поддерживается.
var ErrUnsupportedFormat = errors.New("неподдерживаемый формат")

// ImageData — изображение RGBA, которым обмениваются стадии конвейера.
type ImageData struct {
	Width  int
	Height int
	Pix    []ColorRGBA
}

type ColorRGBA struct {
	R, G, B, A byte
}

type PCXHeader struct {
	Manufacturer byte
	Version      byte
	Encoding     byte
	BitsPerPixel byte
	XMin, YMin   uint16
	XMax, YMax   uint16
	HDpi, VDpi   uint16
	Colormap     [48]byte
	Reserved     byte
	NumPlanes    byte
	BytesPerLine uint16
	PaletteInfo  uint16
	HScreenSize  uint16
	VScreenSize  uint16
	Filler       [54]byte
}

const (
	PCXManufacturer  = 0x0A
	PCXPaletteMarker = 0x0C
	RLEThreshold     = 192
	PCXPaletteSize   = 768
	PCXHeaderSize    = 128
	PCXPaletteOffset = 769
	JPEGQuality      = 95
)

// LoadImage читает изображение; формат определяется по расширению для PCX
// и по сигнатуре для остальных.
func LoadImage(filename string) (*ImageData, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pcx") {
		return LoadPCX(filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return FromImage(img), nil
}

// SaveImage сохраняет изображение; кодер выбирается по расширению.
func SaveImage(filename string, img *ImageData) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		err = png.Encode(&buf, img.ToImage())
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img.ToImage(), &jpeg.Options{Quality: JPEGQuality})
	case ".bmp":
		err = bmp.Encode(&buf, img.ToImage())
	case ".tif", ".tiff":
		err = tiff.Encode(&buf, img.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

// LoadPCX читает 8-битный PCX с RLE-сжатием (палитра 256 цветов в конце
// файла или 16 цветов в заголовке).
func LoadPCX(filename string) (*ImageData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodePCX(data)
}

// DecodePCX разбирает содержимое PCX-файла.
func DecodePCX(data []byte) (*ImageData, error) {
	if len(data) < PCXHeaderSize {
		return nil, fmt.Errorf("%w: PCX короче заголовка", ErrUnsupportedFormat)
	}
	var hdr PCXHeader
	if err := binary.Read(bytes.NewReader(data[:PCXHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr.Manufacturer != PCXManufacturer || hdr.BitsPerPixel != 8 || hdr.NumPlanes != 1 {
		return nil, fmt.Errorf("%w: PCX %d бит, %d плоскостей", ErrUnsupportedFormat, hdr.BitsPerPixel, hdr.NumPlanes)
	}
	w := int(hdr.XMax) - int(hdr.XMin) + 1
	h := int(hdr.YMax) - int(hdr.YMin) + 1
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: PCX размер %dx%d", ErrUnsupportedFormat, w, h)
	}

	var palette [256]ColorRGBA
	body := data[PCXHeaderSize:]
	if len(data) >= PCXHeaderSize+PCXPaletteOffset && data[len(data)-PCXPaletteOffset] == PCXPaletteMarker {
		pal := data[len(data)-PCXPaletteSize:]
		for i := range palette {
			palette[i] = ColorRGBA{R: pal[i*3], G: pal[i*3+1], B: pal[i*3+2], A: 255}
		}
		body = data[PCXHeaderSize : len(data)-PCXPaletteOffset]
	} else {
		for i := 0; i < 16; i++ {
			palette[i] = ColorRGBA{R: hdr.Colormap[i*3], G: hdr.Colormap[i*3+1], B: hdr.Colormap[i*3+2], A: 255}
		}
	}

	pix := make([]ColorRGBA, w*h)
	bytesPerLine := int(hdr.BytesPerLine)
	put := func(x, y int, idx byte) {
		if x < w {
			pix[y*w+x] = palette[idx]
		}
	}
	var x, y int
	for i := 0; i < len(body) && y < h; i++ {
		b := body[i]
		count := 1
		if b >= RLEThreshold {
			count = int(b & 0x3F)
			i++
			if i >= len(body) {
				break
			}
			b = body[i]
		}
		for j := 0; j < count && y < h; j++ {
			put(x, y, b)
			x++
			if x >= bytesPerLine {
				x = 0
				y++
			}
		}
	}
	return &ImageData{Width: w, Height: h, Pix: pix}, nil
}

// FromImage переводит image.Image в ImageData.
func FromImage(img image.Image) *ImageData {
	b := img.Bounds()
	out := &ImageData{Width: b.Dx(), Height: b.Dy(), Pix: make([]ColorRGBA, b.Dx()*b.Dy())}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[(y-b.Min.Y)*out.Width+(x-b.Min.X)] = ColorRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return out
}

// ToImage переводит ImageData в *image.NRGBA.
func (d *ImageData) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	for i, c := range d.Pix {
		copy(img.Pix[i*4:], []byte{c.R, c.G, c.B, c.A})
	}
	return img
}
