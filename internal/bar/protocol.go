// Package bar drives the layer-shell status bar: it assembles the Wayland
// objects announced by the compositor, then repaints the bar on every
// frame callback until the compositor closes it.
//
// The package talks to the compositor only through the interfaces in this
// file. internal/wayland implements them on a live connection.
package bar

const (
	InterfaceCompositor = "wl_compositor"
	InterfaceShm        = "wl_shm"
	InterfaceOutput     = "wl_output"
	InterfaceLayerShell = "zwlr_layer_shell_v1"
)

// Every global is bound at version 1.
const bindVersion uint32 = 1

type Registry interface {
	BindCompositor(name, version uint32) (Compositor, error)
	BindShm(name, version uint32) (Shm, error)
	BindOutput(name, version uint32) (Output, error)
	BindLayerShell(name, version uint32) (LayerShell, error)
}

type Compositor interface {
	CreateSurface() (Surface, error)
}

type Shm interface {
	CreatePool(fd uintptr, size int32) (Pool, error)
}

type Pool interface {
	// CreateBuffer always uses ARGB8888.
	CreateBuffer(offset, width, height, stride int32) (Buffer, error)
	Destroy() error
}

type Buffer interface {
	Destroy() error
}

type Output interface {
	Name() uint32
}

type Surface interface {
	Attach(buffer Buffer, x, y int32) error
	Damage(x, y, width, height int32) error
	// Frame requests a done notification, delivered to EventSink.HandleFrameDone.
	Frame() error
	Commit() error
}

type LayerShell interface {
	GetLayerSurface(surface Surface, output Output, layer uint32, namespace string) (LayerSurface, error)
}

type LayerSurface interface {
	SetAnchor(edges uint32) error
	SetSize(width, height uint32) error
	SetExclusiveZone(zone int32) error
	AckConfigure(serial uint32) error
}

// EventSink receives the events the bar reacts to. Handlers run on the
// dispatching goroutine, one at a time.
type EventSink interface {
	HandleGlobal(name uint32, iface string, version uint32)
	HandleOutputMode(width int32)
	HandleConfigure(serial, width, height uint32)
	HandleClosed()
	HandleFrameDone()
	HandleBufferRelease()
}

// Conn is a connection that can block for the next batch of events.
type Conn interface {
	Registry
	Dispatch() error
	// Wake makes a pending Dispatch return. It is the only method that may
	// be called from another goroutine.
	Wake() error
	Close() error
}
