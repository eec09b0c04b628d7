package main

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSizeMismatch — размеры карты смешивания не совпадают с изображением.
var ErrSizeMismatch = errors.New("размер карты не совпадает с изображением")

// Session держит исходное изображение и однажды построенную карту
// смешивания; рендер можно повторять с любым коэффициентом.
type Session struct {
	mu       sync.Mutex
	source   *Picture
	blendMap *BlendMap
}

// NewSession создаёт сессию для изображения.
func NewSession(p *Picture) *Session {
	return &Session{source: p}
}

// Prepare строит карту при первом вызове. Отменённое построение
// оставляет сессию непостроенной, следующий вызов начнёт заново.
func (s *Session) Prepare(cancelled func() bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blendMap != nil {
		return nil
	}
	m, err := BuildBlendMap(s.source, cancelled)
	if err != nil {
		return err
	}
	s.blendMap = m
	return nil
}

// Restore устанавливает готовую карту (например, из кэша).
func (s *Session) Restore(m *BlendMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Width != s.source.Width || m.Height != s.source.Height {
		return fmt.Errorf("%w: карта %dx%d, изображение %dx%d",
			ErrSizeMismatch, m.Width, m.Height, s.source.Width, s.source.Height)
	}
	s.blendMap = m
	return nil
}

// Reset начинает сессию заново для нового изображения.
func (s *Session) Reset(p *Picture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = p
	s.blendMap = nil
}

// Built сообщает, построена ли карта.
func (s *Session) Built() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blendMap != nil
}

// Source возвращает исходное изображение сессии.
func (s *Session) Source() *Picture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// BlendMap возвращает построенную карту или nil.
func (s *Session) BlendMap() *BlendMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blendMap
}

// Render раскрашивает копию исходного изображения.
func (s *Session) Render(blendFactor, tileSize, workers int) (*Picture, error) {
	r, err := NewRenderer(blendFactor)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	src, m := s.source, s.blendMap
	s.mu.Unlock()
	if m == nil {
		return nil, errors.New("карта смешивания не построена")
	}
	dst := src.Clone()
	RenderTiles(r, dst, m, tileSize, workers)
	return dst, nil
}
