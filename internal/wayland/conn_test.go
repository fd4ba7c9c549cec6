package wayland

import (
	"testing"

	"github.com/matjam/beambar/internal/bar"
	"github.com/neurlang/wayland/wl"
	"github.com/stretchr/testify/assert"
)

type nopSink struct{}

func (nopSink) HandleGlobal(uint32, string, uint32)    {}
func (nopSink) HandleOutputMode(int32)                 {}
func (nopSink) HandleConfigure(uint32, uint32, uint32) {}
func (nopSink) HandleClosed()                          {}
func (nopSink) HandleFrameDone()                       {}
func (nopSink) HandleBufferRelease()                   {}

func TestConnect_NoCompositor(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "beambar-test-missing")

	_, err := Connect(nopSink{})
	assert.Error(t, err)
}

func TestLayerSurfaceSatisfiesBar(t *testing.T) {
	var _ bar.LayerSurface = (*LayerSurface)(nil)
	var _ bar.Output = (*output)(nil)
	var _ bar.Buffer = (*buffer)(nil)
}

func TestConnSatisfiesBar(t *testing.T) {
	var _ bar.Conn = (*Conn)(nil)
	// objects are released by proxy id
	var _ func(wl.Proxy) = (*Conn)(nil).unregister
}
