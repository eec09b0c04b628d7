package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

const (
	cacheMagic     = "BLMP"
	cacheVersion   = 2
	cacheHeaderLen = len(cacheMagic) + 1 + 4 + 4 + 8
	maxCacheCells  = math.MaxInt32
)

var (
	// ErrBadCache — поток не является картой смешивания.
	ErrBadCache = errors.New("повреждённый кэш карты смешивания")
	// ErrStaleCache — кэш построен для другого изображения.
	ErrStaleCache = errors.New("кэш построен для другого изображения")
)

// Fingerprint — FNV-64a по яркости и цветности всех пикселей.
func Fingerprint(p *Picture) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 3*p.Width)
	for y := 0; y < p.Height; y++ {
		buf = buf[:0]
		for _, c := range p.Pix[y*p.Width : (y+1)*p.Width] {
			buf = append(buf, c.Y, c.Cb, c.Cr)
		}
		_, _ = h.Write(buf) // fnv.Write never returns an error
	}
	return h.Sum64()
}

// WriteBlendMap сохраняет карту изображения p: заголовок с размером и
// отпечатком p, затем zstd-кадр с ячейками построчно (число кандидатов,
// Cb, Cr, расстояние как uvarint).
func WriteBlendMap(w io.Writer, m *BlendMap, p *Picture) error {
	if m.Width != p.Width || m.Height != p.Height {
		return fmt.Errorf("%w: карта %dx%d, изображение %dx%d",
			ErrSizeMismatch, m.Width, m.Height, p.Width, p.Height)
	}
	hdr := make([]byte, 0, cacheHeaderLen)
	hdr = append(hdr, cacheMagic...)
	hdr = append(hdr, cacheVersion)
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(m.Width))
	hdr = binary.BigEndian.AppendUint32(hdr, uint32(m.Height))
	hdr = binary.BigEndian.AppendUint64(hdr, Fingerprint(p))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	var tmp [binary.MaxVarintLen64]byte
	for _, list := range m.cells {
		bw.WriteByte(byte(len(list)))
		for _, b := range list {
			bw.WriteByte(b.Chroma.Cb)
			bw.WriteByte(b.Chroma.Cr)
			n := binary.PutUvarint(tmp[:], uint64(b.Distance))
			bw.Write(tmp[:n])
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadBlendMap читает карту, записанную WriteBlendMap для изображения p.
// Карта другого изображения отвергается с ErrStaleCache, ячейки, нарушающие
// инварианты карты (семя с кандидатами, близкие цветности), — с ErrBadCache.
func ReadBlendMap(r io.Reader, p *Picture) (*BlendMap, error) {
	hdr := make([]byte, cacheHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("%w: заголовок: %v", ErrBadCache, err)
	}
	off := len(cacheMagic)
	if string(hdr[:off]) != cacheMagic || hdr[off] != cacheVersion {
		return nil, fmt.Errorf("%w: неверная сигнатура", ErrBadCache)
	}
	w32 := binary.BigEndian.Uint32(hdr[off+1:])
	h32 := binary.BigEndian.Uint32(hdr[off+5:])
	sum := binary.BigEndian.Uint64(hdr[off+9:])
	if w32 == 0 || h32 == 0 || uint64(w32)*uint64(h32) > maxCacheCells {
		return nil, fmt.Errorf("%w: размер %dx%d", ErrBadCache, w32, h32)
	}
	w, h := int(w32), int(h32)
	if w != p.Width || h != p.Height {
		return nil, fmt.Errorf("%w: кэш %dx%d, изображение %dx%d", ErrStaleCache, w, h, p.Width, p.Height)
	}
	if sum != Fingerprint(p) {
		return nil, fmt.Errorf("%w: отпечаток не совпадает", ErrStaleCache)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	m := newBlendMap(w, h)
	for i := range m.cells {
		n, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: ячейка %d: %v", ErrBadCache, i, err)
		}
		if n > MaxBlends {
			return nil, fmt.Errorf("%w: %d кандидатов в ячейке %d", ErrBadCache, n, i)
		}
		if n == 0 {
			continue
		}
		if p.Pix[i].Chroma() != Neutral {
			return nil, fmt.Errorf("%w: кандидаты у цветного пикселя %d", ErrBadCache, i)
		}
		list := make([]Blend, 0, MaxBlends)
		for j := 0; j < int(n); j++ {
			var cc [2]byte
			if _, err := io.ReadFull(br, cc[:]); err != nil {
				return nil, fmt.Errorf("%w: ячейка %d: %v", ErrBadCache, i, err)
			}
			d, err := binary.ReadUvarint(br)
			if err != nil {
				return nil, fmt.Errorf("%w: ячейка %d: %v", ErrBadCache, i, err)
			}
			if d > math.MaxInt32 {
				return nil, fmt.Errorf("%w: расстояние %d в ячейке %d", ErrBadCache, d, i)
			}
			b := Blend{Chroma: Chrominance{Cb: cc[0], Cr: cc[1]}, Distance: int(d)}
			for _, e := range list {
				if e.Chroma.IsClose(b.Chroma) {
					return nil, fmt.Errorf("%w: близкие цветности в ячейке %d", ErrBadCache, i)
				}
			}
			list = append(list, b)
		}
		m.cells[i] = list
	}
	return m, nil
}
