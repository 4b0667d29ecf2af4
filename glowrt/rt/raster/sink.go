package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// FrameSink receives finished frames in order.
type FrameSink interface {
	WriteFrame(index int, img *image.RGBA) error
	Close() error
}

// PNGSequence writes one PNG per frame: <Dir>/<Prefix>_00000.png, ...
type PNGSequence struct {
	Dir    string
	Prefix string

	written int
}

func NewPNGSequence(dir, prefix string) (*PNGSequence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	return &PNGSequence{Dir: dir, Prefix: prefix}, nil
}

func (s *PNGSequence) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%05d.png", s.Prefix, index))
}

func (s *PNGSequence) WriteFrame(index int, img *image.RGBA) error {
	f, err := os.Create(s.Path(index))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	s.written++
	return f.Close()
}

// Written is the number of frames saved so far.
func (s *PNGSequence) Written() int {
	return s.written
}

func (s *PNGSequence) Close() error {
	return nil
}

// GIFSink collects frames and writes a looping animated GIF on Close.
// Delay is in 100ths of a second.
type GIFSink struct {
	Path  string
	Delay int

	anim gif.GIF
}

func NewGIFSink(path string, delay int) *GIFSink {
	if delay <= 0 {
		delay = 4
	}
	return &GIFSink{Path: path, Delay: delay}
}

func (s *GIFSink) WriteFrame(index int, img *image.RGBA) error {
	b := img.Bounds()
	pal := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, b, img, b.Min)
	s.anim.Image = append(s.anim.Image, pal)
	s.anim.Delay = append(s.anim.Delay, s.Delay)
	return nil
}

// Frames is the number of frames buffered so far.
func (s *GIFSink) Frames() int {
	return len(s.anim.Image)
}

func (s *GIFSink) Close() error {
	if len(s.anim.Image) == 0 {
		return nil
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	s.anim.LoopCount = 0
	if err := gif.EncodeAll(f, &s.anim); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode gif: %w", err)
	}
	return f.Close()
}

// MultiSink fans frames out to several sinks.
type MultiSink []FrameSink

func (m MultiSink) WriteFrame(index int, img *image.RGBA) error {
	for _, s := range m {
		if err := s.WriteFrame(index, img); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
