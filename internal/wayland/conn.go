// Package wayland connects the bar to a compositor through
// github.com/neurlang/wayland.
package wayland

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/bar"
	"github.com/neurlang/wayland/wl"
	"github.com/neurlang/wayland/wlclient"
)

var errForeignObject = errors.New("object was not created by this connection")

// Conn is a live display connection. Events are forwarded to the sink from
// inside Dispatch.
type Conn struct {
	display  *wl.Display
	registry *wl.Registry
	sink     bar.EventSink
}

var _ bar.Conn = (*Conn)(nil)

func Connect(sink bar.EventSink) (*Conn, error) {
	display, err := wlclient.DisplayConnect(nil)
	if err != nil {
		return nil, fmt.Errorf("connect to Wayland: %w", err)
	}

	registry, err := display.GetRegistry()
	if err != nil {
		wlclient.DisplayDisconnect(display)
		return nil, fmt.Errorf("get registry: %w", err)
	}

	c := &Conn{
		display:  display,
		registry: registry,
		sink:     sink,
	}
	registry.AddGlobalHandler(c)
	log.Debug("connected to Wayland display")

	return c, nil
}

func (c *Conn) HandleRegistryGlobal(ev wl.RegistryGlobalEvent) {
	c.sink.HandleGlobal(ev.Name, ev.Interface, ev.Version)
}

func (c *Conn) Dispatch() error {
	return wlclient.DisplayDispatch(c.display)
}

// Wake sends a display sync. Its reply makes a Dispatch blocked on another
// goroutine return, without touching the connection itself.
func (c *Conn) Wake() error {
	if _, err := c.display.Sync(); err != nil {
		return fmt.Errorf("display sync: %w", err)
	}
	return nil
}

// Close must be called from the goroutine that dispatches.
func (c *Conn) Close() error {
	wlclient.DisplayDisconnect(c.display)
	return nil
}

func (c *Conn) BindCompositor(name, version uint32) (bar.Compositor, error) {
	wc := wlclient.RegistryBindCompositorInterface(c.registry, name, version)
	if wc == nil {
		return nil, fmt.Errorf("bind compositor %d failed", name)
	}
	return &compositor{conn: c, wl: wc}, nil
}

func (c *Conn) BindShm(name, version uint32) (bar.Shm, error) {
	ws := wlclient.RegistryBindShmInterface(c.registry, name, version)
	if ws == nil {
		return nil, fmt.Errorf("bind shm %d failed", name)
	}
	return &shmGlobal{conn: c, wl: ws}, nil
}

func (c *Conn) BindOutput(name, version uint32) (bar.Output, error) {
	wo := wlclient.RegistryBindOutputInterface(c.registry, name, version)
	if wo == nil {
		return nil, fmt.Errorf("bind output %d failed", name)
	}
	wo.AddModeHandler(outputModeHandler{sink: c.sink})
	return &output{name: name, wl: wo}, nil
}

func (c *Conn) BindLayerShell(name, version uint32) (bar.LayerShell, error) {
	ls, err := BindLayerShell(c.registry, name, version)
	if err != nil {
		return nil, err
	}
	return &layerShell{conn: c, wl: ls}, nil
}

func (c *Conn) unregister(p wl.Proxy) {
	c.display.Context().Unregister(p.Id())
}
