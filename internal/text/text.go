// Package text turns strings into positioned glyph coverage masks.
package text

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph is a coverage mask whose bounds are relative to the shaping origin:
// x starts at 0 and y at the top of the line.
type Glyph struct {
	Rune rune
	Mask *image.Alpha
}

type Shaper struct {
	face     font.Face
	baseline fixed.Int26_6
}

// NewShaper centres the face's ascent+descent box inside a line of the
// given pixel height.
func NewShaper(face font.Face, height int) *Shaper {
	m := face.Metrics()
	baseline := (fixed.I(height) + m.Ascent - m.Descent) / 2
	return &Shaper{
		face:     face,
		baseline: fixed.I(baseline.Round()),
	}
}

// LoadFace opens a TrueType or OpenType font. An empty path selects the
// embedded Go Regular face.
func LoadFace(path string, size, dpi float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// Shape lays out text on a single line. Runes without ink (spaces) advance
// the pen but produce no glyph.
func (s *Shaper) Shape(text string) []Glyph {
	var glyphs []Glyph

	dot := fixed.Point26_6{Y: s.baseline}
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			dot.X += s.face.Kern(prev, r)
		}
		prev = r

		dr, mask, maskp, advance, ok := s.face.Glyph(dot, r)
		if !ok {
			// fall back to the face's notdef advance
			if a, ok := s.face.GlyphAdvance(r); ok {
				dot.X += a
			}
			continue
		}
		dot.X += advance

		if dr.Empty() {
			continue
		}

		// the face reuses its mask buffer between calls
		a := image.NewAlpha(dr)
		draw.Draw(a, dr, mask, maskp, draw.Src)
		glyphs = append(glyphs, Glyph{Rune: r, Mask: a})
	}
	return glyphs
}
