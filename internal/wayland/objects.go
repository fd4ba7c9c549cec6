package wayland

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/bar"
	"github.com/neurlang/wayland/wl"
)

type output struct {
	name uint32
	wl   *wl.Output
}

func (o *output) Name() uint32 { return o.name }

type outputModeHandler struct{ sink bar.EventSink }

func (h outputModeHandler) HandleOutputMode(ev wl.OutputModeEvent) {
	h.sink.HandleOutputMode(ev.Width)
}

type compositor struct {
	conn *Conn
	wl   *wl.Compositor
}

func (c *compositor) CreateSurface() (bar.Surface, error) {
	s, err := c.wl.CreateSurface()
	if err != nil {
		return nil, err
	}
	return &surface{conn: c.conn, wl: s}, nil
}

type surface struct {
	conn *Conn
	wl   *wl.Surface
}

func (s *surface) Attach(b bar.Buffer, x, y int32) error {
	wb, ok := b.(*buffer)
	if !ok {
		return fmt.Errorf("attach %T: %w", b, errForeignObject)
	}
	return s.wl.Attach(wb.wl, x, y)
}

func (s *surface) Damage(x, y, width, height int32) error {
	return s.wl.Damage(x, y, width, height)
}

func (s *surface) Frame() error {
	cb, err := s.wl.Frame()
	if err != nil {
		return err
	}
	cb.AddDoneHandler(&frameDone{conn: s.conn, callback: cb})
	return nil
}

func (s *surface) Commit() error {
	return s.wl.Commit()
}

type frameDone struct {
	conn     *Conn
	callback *wl.Callback
}

func (f *frameDone) HandleCallbackDone(ev wl.CallbackDoneEvent) {
	// wl_callback is destroyed by the compositor once done is sent
	f.conn.unregister(f.callback)
	f.conn.sink.HandleFrameDone()
}

type shmGlobal struct {
	conn *Conn
	wl   *wl.Shm
}

func (s *shmGlobal) CreatePool(fd uintptr, size int32) (bar.Pool, error) {
	p, err := s.wl.CreatePool(fd, size)
	if err != nil {
		return nil, err
	}
	return &pool{conn: s.conn, wl: p}, nil
}

type pool struct {
	conn *Conn
	wl   *wl.ShmPool
}

func (p *pool) CreateBuffer(offset, width, height, stride int32) (bar.Buffer, error) {
	b, err := p.wl.CreateBuffer(offset, width, height, stride, wl.ShmFormatArgb8888)
	if err != nil {
		return nil, err
	}
	wb := &buffer{conn: p.conn, wl: b}
	b.AddReleaseHandler(wb)
	return wb, nil
}

func (p *pool) Destroy() error {
	return p.wl.Destroy()
}

type buffer struct {
	conn *Conn
	wl   *wl.Buffer
}

func (b *buffer) Destroy() error {
	err := b.wl.Destroy()
	b.conn.unregister(b.wl)
	return err
}

// HandleBufferRelease destroys the buffer; each one is attached only once.
func (b *buffer) HandleBufferRelease(ev wl.BufferReleaseEvent) {
	if err := b.Destroy(); err != nil {
		log.Warnf("destroy buffer: %v", err)
	}
	b.conn.sink.HandleBufferRelease()
}

type layerShell struct {
	conn *Conn
	wl   *LayerShell
}

func (l *layerShell) GetLayerSurface(s bar.Surface, o bar.Output, layer uint32, namespace string) (bar.LayerSurface, error) {
	ws, ok := s.(*surface)
	if !ok {
		return nil, fmt.Errorf("surface %T: %w", s, errForeignObject)
	}
	wo, ok := o.(*output)
	if !ok {
		return nil, fmt.Errorf("output %T: %w", o, errForeignObject)
	}

	ls, err := l.wl.GetLayerSurface(ws.wl, wo.wl, layer, namespace)
	if err != nil {
		return nil, err
	}
	events := layerSurfaceEvents{sink: l.conn.sink}
	ls.AddConfigureHandler(events)
	ls.AddClosedHandler(events)
	return ls, nil
}

type layerSurfaceEvents struct{ sink bar.EventSink }

func (e layerSurfaceEvents) HandleLayerSurfaceConfigure(ev LayerSurfaceConfigureEvent) {
	e.sink.HandleConfigure(ev.Serial, ev.Width, ev.Height)
}

func (e layerSurfaceEvents) HandleLayerSurfaceClosed(LayerSurfaceClosedEvent) {
	e.sink.HandleClosed()
}
