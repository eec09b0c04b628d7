package main

import (
	"fmt"
	"log"

	"github.com/veandco/go-sdl2/sdl"
)

type previewWindow struct {
	win  *sdl.Window
	rend *sdl.Renderer
	tex  *sdl.Texture
}

func (p *previewWindow) Destroy() {
	if p.tex != nil {
		p.tex.Destroy()
	}
	if p.rend != nil {
		p.rend.Destroy()
	}
	if p.win != nil {
		p.win.Destroy()
	}
	p.win, p.rend, p.tex = nil, nil, nil
}

// showPreview открывает окна с исходным и раскрашенным изображением.
// Клавиши 1..6 меняют коэффициент смешивания без повторного построения карты.
func showPreview(original *ImageData, s *Session, blendFactor int, opts *Options) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("инициализация SDL: %w", err)
	}
	defer sdl.Quit()

	orig, err := createWindowAndTexture("Исходное", original, 100, 100)
	if err != nil {
		return err
	}
	defer orig.Destroy()

	colored, err := s.Render(blendFactor, opts.Tile, opts.Workers)
	if err != nil {
		return err
	}
	conv, err := createWindowAndTexture(convTitle(blendFactor), colored.ImageData(), 100+original.Width+20, 100)
	if err != nil {
		return err
	}
	defer conv.Destroy()

	for {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch e := ev.(type) {
			case *sdl.QuitEvent:
				log.Println("Завершение SDL-цикла")
				return nil
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_CLOSE {
					return nil
				}
			case *sdl.KeyboardEvent:
				if e.State != sdl.PRESSED {
					continue
				}
				k := int(e.Keysym.Sym) - int(sdl.K_0)
				if k < MinBlendFactor || k > MaxBlendFactor || k == blendFactor {
					continue
				}
				blendFactor = k
				colored, err := s.Render(blendFactor, opts.Tile, opts.Workers)
				if err != nil {
					return err
				}
				if err := updateTexture(conv.tex, colored.ImageData()); err != nil {
					return err
				}
				conv.win.SetTitle(convTitle(blendFactor))
				logger().Info("коэффициент смешивания изменён", "blend", blendFactor)
			}
		}
		renderWindow(orig)
		renderWindow(conv)
		sdl.Delay(16) // ~60 FPS
	}
}

func convTitle(blendFactor int) string {
	return fmt.Sprintf("Раскрашенное (смешивание %d)", blendFactor)
}

func renderWindow(p *previewWindow) {
	if p.win == nil || p.rend == nil || p.tex == nil {
		return
	}
	p.rend.SetDrawColor(0, 0, 0, 255)
	p.rend.Clear()
	p.rend.Copy(p.tex, nil, nil)
	p.rend.Present()
}

func createWindowAndTexture(title string, img *ImageData, x, y int) (*previewWindow, error) {
	w, h := img.Width, img.Height
	p := &previewWindow{}

	var err error
	p.win, err = sdl.CreateWindow(title, int32(x), int32(y), int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, err
	}
	p.rend, err = sdl.CreateRenderer(p.win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		p.Destroy()
		return nil, err
	}
	p.tex, err = p.rend.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		p.Destroy()
		return nil, err
	}
	if err := updateTexture(p.tex, img); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func updateTexture(tex *sdl.Texture, img *ImageData) error {
	pixels, pitch, err := tex.Lock(nil)
	if err != nil {
		return err
	}
	defer tex.Unlock()
	for row := 0; row < img.Height; row++ {
		line := pixels[row*pitch:]
		for x := 0; x < img.Width; x++ {
			c := img.Pix[row*img.Width+x]
			line[x*4+0] = c.R
			line[x*4+1] = c.G
			line[x*4+2] = c.B
			line[x*4+3] = 255
		}
	}
	return nil
}
