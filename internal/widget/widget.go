// Package widget holds the layout model shared by the bar and the terminal
// preview.
package widget

import (
	"errors"
	"time"
)

var ErrUnrecognizedInstruction = errors.New("unrecognized draw instruction")

// Widget is either a Spacer or a *User. The set is closed.
type Widget interface {
	isWidget()
}

type Spacer struct{}

func (Spacer) isWidget() {}

// DrawFunc produces the labels for one draw, left to right.
type DrawFunc func() ([]Label, error)

type User struct {
	Title string
	// WidthHint is the minimum room the widget takes: pixels on the bar,
	// cells in the terminal preview.
	WidthHint int
	// Refresh is how long a draw result stays valid. Zero redraws on
	// every frame.
	Refresh time.Duration
	Draw    DrawFunc
}

func (*User) isWidget() {}

type Label struct {
	Text  string
	Color RGBA
}
