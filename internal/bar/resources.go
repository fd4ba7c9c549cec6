package bar

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyBound = errors.New("resource already bound")
	ErrAlreadyFinal = errors.New("resources already finalized")
	ErrNotFinal     = errors.New("resources not finalized")
	ErrIncomplete   = errors.New("resources incomplete")
)

// ResourceState is either *Partial or *Final.
type ResourceState interface {
	isResourceState()
}

// Partial collects the globals and the output width while the handshake is
// in progress. Fields are set at most once, except the width.
type Partial struct {
	output     Output
	shm        Shm
	compositor Compositor
	layerShell LayerShell
	width      uint32
	hasWidth   bool
}

func (*Partial) isResourceState() {}

func (p *Partial) Complete() bool {
	return len(p.Missing()) == 0
}

func (p *Partial) Missing() []string {
	var missing []string
	if p.compositor == nil {
		missing = append(missing, InterfaceCompositor)
	}
	if p.shm == nil {
		missing = append(missing, InterfaceShm)
	}
	if p.output == nil {
		missing = append(missing, InterfaceOutput)
	}
	if p.layerShell == nil {
		missing = append(missing, InterfaceLayerShell)
	}
	if !p.hasWidth {
		missing = append(missing, "output width")
	}
	return missing
}

// Bound reports whether the global with the given interface name is held.
func (p *Partial) Bound(iface string) bool {
	switch iface {
	case InterfaceCompositor:
		return p.compositor != nil
	case InterfaceShm:
		return p.shm != nil
	case InterfaceOutput:
		return p.output != nil
	case InterfaceLayerShell:
		return p.layerShell != nil
	}
	return false
}

func (p *Partial) Output() Output         { return p.output }
func (p *Partial) Shm() Shm               { return p.shm }
func (p *Partial) Compositor() Compositor { return p.compositor }
func (p *Partial) LayerShell() LayerShell { return p.layerShell }

func (p *Partial) Width() (uint32, bool) { return p.width, p.hasWidth }

// Promote builds the Final state from a complete Partial plus the two
// objects created during finalization.
func (p *Partial) Promote(surface Surface, layerSurface LayerSurface) (*Final, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrIncomplete, missing)
	}
	if surface == nil || layerSurface == nil {
		return nil, fmt.Errorf("%w: missing surface", ErrIncomplete)
	}
	return &Final{
		output:       p.output,
		shm:          p.shm,
		compositor:   p.compositor,
		surface:      surface,
		layerShell:   p.layerShell,
		layerSurface: layerSurface,
		width:        p.width,
	}, nil
}

// Final holds everything needed to draw. Only the width changes after
// creation.
type Final struct {
	output       Output
	shm          Shm
	compositor   Compositor
	surface      Surface
	layerShell   LayerShell
	layerSurface LayerSurface
	width        uint32
}

func (*Final) isResourceState() {}

func (f *Final) Output() Output             { return f.output }
func (f *Final) Shm() Shm                   { return f.shm }
func (f *Final) Compositor() Compositor     { return f.compositor }
func (f *Final) Surface() Surface           { return f.surface }
func (f *Final) LayerShell() LayerShell     { return f.layerShell }
func (f *Final) LayerSurface() LayerSurface { return f.layerSurface }
func (f *Final) Width() uint32              { return f.width }

// Update is one mutation of a Partial state.
type Update interface {
	apply(p *Partial) error
}

type updateFunc func(p *Partial) error

func (f updateFunc) apply(p *Partial) error { return f(p) }

func WithOutput(o Output) Update {
	return updateFunc(func(p *Partial) error {
		if p.output != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, InterfaceOutput)
		}
		p.output = o
		return nil
	})
}

func WithShm(s Shm) Update {
	return updateFunc(func(p *Partial) error {
		if p.shm != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, InterfaceShm)
		}
		p.shm = s
		return nil
	})
}

func WithCompositor(c Compositor) Update {
	return updateFunc(func(p *Partial) error {
		if p.compositor != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, InterfaceCompositor)
		}
		p.compositor = c
		return nil
	})
}

func WithLayerShell(l LayerShell) Update {
	return updateFunc(func(p *Partial) error {
		if p.layerShell != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyBound, InterfaceLayerShell)
		}
		p.layerShell = l
		return nil
	})
}

// WithWidth may be applied any number of times; the last one wins.
func WithWidth(w uint32) Update {
	return updateFunc(func(p *Partial) error {
		p.width = w
		p.hasWidth = true
		return nil
	})
}
