package wayland

import (
	"sync"

	"github.com/neurlang/wayland/wl"
)

// zwlr_layer_shell_v1 requests
const (
	layerShellRequestGetLayerSurface uint32 = iota
	layerShellRequestDestroy
)

// zwlr_layer_surface_v1 requests
const (
	layerSurfaceRequestSetSize uint32 = iota
	layerSurfaceRequestSetAnchor
	layerSurfaceRequestSetExclusiveZone
	layerSurfaceRequestSetMargin
	layerSurfaceRequestSetKeyboardInteractivity
	layerSurfaceRequestGetPopup
	layerSurfaceRequestAckConfigure
	layerSurfaceRequestDestroy
)

// zwlr_layer_surface_v1 events
const (
	layerSurfaceEventConfigure uint32 = iota
	layerSurfaceEventClosed
)

const layerShellInterface = "zwlr_layer_shell_v1"

// LayerShell is a zwlr_layer_shell_v1 object.
type LayerShell struct {
	wl.BaseProxy
}

func NewLayerShell(ctx *wl.Context) *LayerShell {
	ret := new(LayerShell)
	ctx.Register(ret)
	return ret
}

func BindLayerShell(r *wl.Registry, name, version uint32) (*LayerShell, error) {
	ls := NewLayerShell(r.Context())
	return ls, r.Bind(name, layerShellInterface, version, ls)
}

// GetLayerSurface gives surface the layer-surface role on output.
func (l *LayerShell) GetLayerSurface(surface *wl.Surface, output *wl.Output, layer uint32, namespace string) (*LayerSurface, error) {
	ret := NewLayerSurface(l.Context())
	return ret, l.Context().SendRequest(l, layerShellRequestGetLayerSurface, ret, surface, output, layer, namespace)
}

func (l *LayerShell) Destroy() error {
	return l.Context().SendRequest(l, layerShellRequestDestroy)
}

func (l *LayerShell) Dispatch(event *wl.Event) {}

type LayerSurfaceConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

type LayerSurfaceClosedEvent struct{}

type LayerSurfaceConfigureHandler interface {
	HandleLayerSurfaceConfigure(LayerSurfaceConfigureEvent)
}

type LayerSurfaceClosedHandler interface {
	HandleLayerSurfaceClosed(LayerSurfaceClosedEvent)
}

// LayerSurface is a zwlr_layer_surface_v1 object.
type LayerSurface struct {
	wl.BaseProxy
	mu        sync.RWMutex
	configure []LayerSurfaceConfigureHandler
	closed    []LayerSurfaceClosedHandler
}

func NewLayerSurface(ctx *wl.Context) *LayerSurface {
	ret := new(LayerSurface)
	ctx.Register(ret)
	return ret
}

func (l *LayerSurface) SetSize(width, height uint32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestSetSize, width, height)
}

func (l *LayerSurface) SetAnchor(anchor uint32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestSetAnchor, anchor)
}

func (l *LayerSurface) SetExclusiveZone(zone int32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestSetExclusiveZone, zone)
}

func (l *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestSetMargin, top, right, bottom, left)
}

func (l *LayerSurface) SetKeyboardInteractivity(mode uint32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestSetKeyboardInteractivity, mode)
}

func (l *LayerSurface) AckConfigure(serial uint32) error {
	return l.Context().SendRequest(l, layerSurfaceRequestAckConfigure, serial)
}

func (l *LayerSurface) Destroy() error {
	return l.Context().SendRequest(l, layerSurfaceRequestDestroy)
}

func (l *LayerSurface) AddConfigureHandler(h LayerSurfaceConfigureHandler) {
	if h != nil {
		l.mu.Lock()
		l.configure = append(l.configure, h)
		l.mu.Unlock()
	}
}

func (l *LayerSurface) AddClosedHandler(h LayerSurfaceClosedHandler) {
	if h != nil {
		l.mu.Lock()
		l.closed = append(l.closed, h)
		l.mu.Unlock()
	}
}

func (l *LayerSurface) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case layerSurfaceEventConfigure:
		ev := LayerSurfaceConfigureEvent{
			Serial: event.Uint32(),
			Width:  event.Uint32(),
			Height: event.Uint32(),
		}
		l.mu.RLock()
		for _, h := range l.configure {
			h.HandleLayerSurfaceConfigure(ev)
		}
		l.mu.RUnlock()
	case layerSurfaceEventClosed:
		l.mu.RLock()
		for _, h := range l.closed {
			h.HandleLayerSurfaceClosed(LayerSurfaceClosedEvent{})
		}
		l.mu.RUnlock()
	}
}
