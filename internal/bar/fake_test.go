package bar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

type recorder struct {
	calls   []string
	buffers int
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) index(call string) int {
	for i, c := range r.calls {
		if c == call {
			return i
		}
	}
	return -1
}

// since returns the calls recorded after mark.
func (r *recorder) since(mark int) []string {
	return append([]string(nil), r.calls[mark:]...)
}

type fakeConn struct {
	rec        *recorder
	bindErr    map[string]error
	events     []func()
	dispatches int
	wakes      int
	closed     bool
	surfaceErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{rec: &recorder{}, bindErr: map[string]error{}}
}

func (c *fakeConn) bind(iface string, name, version uint32) error {
	c.rec.add("bind %s %d v%d", iface, name, version)
	return c.bindErr[iface]
}

func (c *fakeConn) BindCompositor(name, version uint32) (Compositor, error) {
	if err := c.bind(InterfaceCompositor, name, version); err != nil {
		return nil, err
	}
	return &fakeCompositor{rec: c.rec, err: c.surfaceErr}, nil
}

func (c *fakeConn) BindShm(name, version uint32) (Shm, error) {
	if err := c.bind(InterfaceShm, name, version); err != nil {
		return nil, err
	}
	return &fakeShm{rec: c.rec}, nil
}

func (c *fakeConn) BindOutput(name, version uint32) (Output, error) {
	if err := c.bind(InterfaceOutput, name, version); err != nil {
		return nil, err
	}
	return fakeOutput(name), nil
}

func (c *fakeConn) BindLayerShell(name, version uint32) (LayerShell, error) {
	if err := c.bind(InterfaceLayerShell, name, version); err != nil {
		return nil, err
	}
	return &fakeLayerShell{rec: c.rec}, nil
}

func (c *fakeConn) Dispatch() error {
	c.dispatches++
	if len(c.events) == 0 {
		return io.EOF
	}
	ev := c.events[0]
	c.events = c.events[1:]
	ev()
	return nil
}

func (c *fakeConn) Wake() error {
	c.wakes++
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// blockingConn parks Dispatch until Wake is called, the way a display
// waits for a sync reply.
type blockingConn struct {
	*fakeConn
	once        sync.Once
	wake        chan struct{}
	dispatching atomic.Bool
	closedEarly atomic.Bool
}

func newBlockingConn() *blockingConn {
	return &blockingConn{fakeConn: newFakeConn(), wake: make(chan struct{})}
}

func (c *blockingConn) Dispatch() error {
	c.dispatching.Store(true)
	defer c.dispatching.Store(false)
	<-c.wake
	return nil
}

func (c *blockingConn) Wake() error {
	c.once.Do(func() { close(c.wake) })
	return nil
}

func (c *blockingConn) Close() error {
	if c.dispatching.Load() {
		c.closedEarly.Store(true)
	}
	return c.fakeConn.Close()
}

type fakeOutput uint32

func (o fakeOutput) Name() uint32 { return uint32(o) }

type fakeCompositor struct {
	rec *recorder
	err error
}

func (c *fakeCompositor) CreateSurface() (Surface, error) {
	c.rec.add("create_surface")
	if c.err != nil {
		return nil, c.err
	}
	return &fakeSurface{rec: c.rec}, nil
}

type fakeShm struct{ rec *recorder }

func (s *fakeShm) CreatePool(fd uintptr, size int32) (Pool, error) {
	s.rec.add("create_pool %d", size)
	return &fakePool{rec: s.rec}, nil
}

type fakePool struct{ rec *recorder }

func (p *fakePool) CreateBuffer(offset, width, height, stride int32) (Buffer, error) {
	p.rec.add("create_buffer %dx%d stride=%d", width, height, stride)
	p.rec.buffers++
	return &fakeBuffer{id: p.rec.buffers}, nil
}

func (p *fakePool) Destroy() error {
	p.rec.add("destroy_pool")
	return nil
}

type fakeBuffer struct{ id int }

func (b *fakeBuffer) Destroy() error { return nil }

type fakeSurface struct {
	rec       *recorder
	commitErr error
}

func (s *fakeSurface) Attach(buffer Buffer, x, y int32) error {
	s.rec.add("attach buffer-%d %d %d", buffer.(*fakeBuffer).id, x, y)
	return nil
}

func (s *fakeSurface) Damage(x, y, width, height int32) error {
	s.rec.add("damage %d %d %d %d", x, y, width, height)
	return nil
}

func (s *fakeSurface) Frame() error {
	s.rec.add("frame")
	return nil
}

func (s *fakeSurface) Commit() error {
	s.rec.add("commit")
	return s.commitErr
}

type fakeLayerShell struct{ rec *recorder }

func (l *fakeLayerShell) GetLayerSurface(surface Surface, output Output, layer uint32, namespace string) (LayerSurface, error) {
	l.rec.add("get_layer_surface output=%d layer=%d namespace=%s", output.Name(), layer, namespace)
	return &fakeLayerSurface{rec: l.rec}, nil
}

type fakeLayerSurface struct{ rec *recorder }

func (l *fakeLayerSurface) SetAnchor(edges uint32) error {
	l.rec.add("set_anchor %d", edges)
	return nil
}

func (l *fakeLayerSurface) SetSize(width, height uint32) error {
	l.rec.add("set_size %d %d", width, height)
	return nil
}

func (l *fakeLayerSurface) SetExclusiveZone(zone int32) error {
	l.rec.add("set_exclusive_zone %d", zone)
	return nil
}

func (l *fakeLayerSurface) AckConfigure(serial uint32) error {
	l.rec.add("ack_configure %d", serial)
	return nil
}
