package core

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type TextItem struct {
	Text     string
	Position [2]float32 // pixels, top-left of the first line
	Color    [4]float32
}

// TextRenderer draws HUD text straight into CPU frames.
type TextRenderer struct {
	Face font.Face
}

// NewTextRenderer parses fontBytes, or the bundled Go Mono face when
// fontBytes is nil.
func NewTextRenderer(fontBytes []byte, fontSize float64) (*TextRenderer, error) {
	if fontBytes == nil {
		fontBytes = gomono.TTF
	}

	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	return &TextRenderer{Face: face}, nil
}

func (tr *TextRenderer) DrawText(dst draw.Image, item TextItem) {
	if tr == nil {
		return
	}
	c := color.NRGBA{
		R: unitToByte(item.Color[0]),
		G: unitToByte(item.Color[1]),
		B: unitToByte(item.Color[2]),
		A: unitToByte(item.Color[3]),
	}
	ascent := tr.Face.Metrics().Ascent.Ceil()
	lineHeight := tr.Face.Metrics().Height.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: tr.Face,
	}
	x := int(item.Position[0])
	y := int(item.Position[1]) + ascent
	start := 0
	for i := 0; i <= len(item.Text); i++ {
		if i == len(item.Text) || item.Text[i] == '\n' {
			d.Dot = fixed.P(x, y)
			d.DrawString(item.Text[start:i])
			y += lineHeight
			start = i + 1
		}
	}
}

// MeasureText returns the pixel width of the widest line and the total height.
func (tr *TextRenderer) MeasureText(text string) (int, int) {
	if tr == nil {
		return 0, 0
	}
	lineHeight := tr.Face.Metrics().Height.Ceil()

	maxW, lines, start := 0, 0, 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			w := font.MeasureString(tr.Face, text[start:i]).Ceil()
			if w > maxW {
				maxW = w
			}
			lines++
			start = i + 1
		}
	}
	return maxW, lineHeight * lines
}

func unitToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
