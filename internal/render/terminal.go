package render

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/matjam/beambar/internal/widget"
)

const DefaultSpacer = "<->"

// Terminal renders the same layout as GUI onto a single line of styled
// text. Spacers become a visible marker.
type Terminal struct {
	cache  *widget.Cache
	spacer string
}

func NewTerminal(cache *widget.Cache, spacer string) *Terminal {
	if spacer == "" {
		spacer = DefaultSpacer
	}
	return &Terminal{cache: cache, spacer: spacer}
}

func (t *Terminal) Render(layout []widget.Widget) string {
	var b strings.Builder

	for _, w := range layout {
		switch w := w.(type) {
		case widget.Spacer:
			b.WriteString(lipgloss.NewStyle().Faint(true).Render(t.spacer))
		case *widget.User:
			labels, err := t.cache.Draw(w)
			if err != nil {
				log.Warnf("widget %q: %v", w.Title, err)
				continue
			}

			cells := 0
			for _, l := range labels {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color.Hex()))
				b.WriteString(style.Render(l.Text))
				cells += runewidth.StringWidth(l.Text)
			}
			if w.WidthHint > cells {
				b.WriteString(strings.Repeat(" ", w.WidthHint-cells))
			}
		}
	}

	return b.String()
}
