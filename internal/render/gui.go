// Package render turns a widget layout into pixels for the bar surface, or
// into a styled line for the terminal preview.
package render

import (
	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/text"
	"github.com/matjam/beambar/internal/widget"
)

type Shaper interface {
	Shape(s string) []text.Glyph
}

// Placement records where a label ended up, in canvas columns.
type Placement struct {
	Widget string
	Text   string
	Start  int
	End    int
}

type Frame struct {
	Canvas     *Canvas
	Placements []Placement
}

type GUI struct {
	shaper Shaper
	cache  *widget.Cache
}

func NewGUI(shaper Shaper, cache *widget.Cache) *GUI {
	return &GUI{shaper: shaper, cache: cache}
}

// Render draws the layout left to right on a zeroed canvas. Spacers take no
// room here. A widget whose draw fails is logged and skipped; the rest of
// the frame is still drawn.
func (g *GUI) Render(layout []widget.Widget, width, height int) *Frame {
	frame := &Frame{Canvas: NewCanvas(width, height)}

	cursor := 0
	for _, w := range layout {
		switch w := w.(type) {
		case widget.Spacer:
		case *widget.User:
			labels, err := g.cache.Draw(w)
			if err != nil {
				log.Warnf("widget %q: %v", w.Title, err)
				continue
			}

			start := cursor
			for _, l := range labels {
				end := g.drawLabel(frame.Canvas, l, cursor)
				frame.Placements = append(frame.Placements, Placement{
					Widget: w.Title,
					Text:   l.Text,
					Start:  cursor,
					End:    end,
				})
				cursor = end
			}

			if w.WidthHint > 0 && cursor < start+w.WidthHint {
				cursor = start + w.WidthHint
			}
		default:
			log.Warnf("skipping unknown widget %T", w)
		}
	}

	return frame
}

func (g *GUI) drawLabel(c *Canvas, l widget.Label, cursor int) int {
	col := l.Color.NRGBA()
	end := cursor
	for _, glyph := range g.shaper.Shape(l.Text) {
		if right, ok := c.Composite(glyph.Mask, cursor, col); ok && right > end {
			end = right
		}
	}
	return end
}
