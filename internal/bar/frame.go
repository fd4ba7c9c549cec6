package bar

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/shm"
)

// maxLiveBuffers bounds the buffers the compositor has not released yet.
// Frames beyond it are skipped until a release arrives.
const maxLiveBuffers = 8

// Painter draws a full frame of the given size.
type Painter interface {
	Paint(width, height int) *render.Canvas
}

type PainterFunc func(width, height int) *render.Canvas

func (f PainterFunc) Paint(width, height int) *render.Canvas { return f(width, height) }

// finalize creates the bar surface. Nothing is attached until the first
// configure has been acknowledged.
func (s *Session) finalize(p *Partial) (*Final, error) {
	width, _ := p.Width()
	height := s.cfg.Height

	surface, err := p.Compositor().CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}

	layerSurface, err := p.LayerShell().GetLayerSurface(surface, p.Output(), s.layer, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("get layer surface: %w", err)
	}
	if err := layerSurface.SetAnchor(s.cfg.Edges()); err != nil {
		return nil, fmt.Errorf("set anchor: %w", err)
	}
	if err := layerSurface.SetSize(width, height); err != nil {
		return nil, fmt.Errorf("set size: %w", err)
	}
	if err := layerSurface.SetExclusiveZone(s.cfg.ExclusiveZone()); err != nil {
		return nil, fmt.Errorf("set exclusive zone: %w", err)
	}

	if err := surface.Frame(); err != nil {
		return nil, fmt.Errorf("request frame: %w", err)
	}
	s.frameOutstanding = true

	if err := surface.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	// attached together with the first configure ack
	blank, err := s.newBuffer(p.Shm(), render.NewCanvas(int(width), int(height)))
	if err != nil {
		return nil, err
	}

	s.pending = blank
	s.sizedWidth = width
	return p.Promote(surface, layerSurface)
}

// HandleFrameDone repaints the bar and asks for the next frame.
func (s *Session) HandleFrameDone() {
	s.frameOutstanding = false
	if !s.running || s.lifecycle != Visible {
		return
	}

	f, ok := s.assembler.Final()
	if !ok {
		s.fail(fmt.Errorf("frame: %w", ErrNotFinal))
		return
	}

	if err := s.renderFrame(f); err != nil {
		s.fail(err)
		return
	}
	s.publish()
}

func (s *Session) renderFrame(f *Final) error {
	width, height := f.Width(), s.cfg.Height

	if width != s.sizedWidth {
		log.Debugf("output width changed %d -> %d", s.sizedWidth, width)
		if err := f.LayerSurface().SetSize(width, height); err != nil {
			return fmt.Errorf("set size: %w", err)
		}
		s.sizedWidth = width
	}

	surface := f.Surface()
	if s.liveBuffers >= maxLiveBuffers {
		log.Debugf("%d buffers still held by the compositor, skipping frame", s.liveBuffers)
		return s.requestFrame(surface)
	}

	canvas := s.painter.Paint(int(width), int(height))
	buffer, err := s.newBuffer(f.Shm(), canvas)
	if err != nil {
		return err
	}

	if err := s.present(surface, buffer, width); err != nil {
		return err
	}
	if err := s.requestFrame(surface); err != nil {
		return err
	}

	s.frames++
	return nil
}

func (s *Session) requestFrame(surface Surface) error {
	if err := surface.Frame(); err != nil {
		return fmt.Errorf("request frame: %w", err)
	}
	s.frameOutstanding = true
	if err := surface.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Session) present(surface Surface, buffer Buffer, width uint32) error {
	if err := surface.Attach(buffer, 0, 0); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	if err := surface.Damage(0, 0, int32(width), int32(s.cfg.Height)); err != nil {
		return fmt.Errorf("damage: %w", err)
	}
	return nil
}

// HandleBufferRelease is called after the compositor let go of a buffer
// and it was destroyed.
func (s *Session) HandleBufferRelease() {
	if s.liveBuffers > 0 {
		s.liveBuffers--
	}
	s.publish()
}

// newBuffer copies the canvas into a fresh memfd and wraps it in a
// wl_buffer. The pool and the local mapping are released straight away;
// the compositor holds its own reference.
func (s *Session) newBuffer(wlShm Shm, canvas *render.Canvas) (Buffer, error) {
	region, err := shm.Allocate(canvas.Len())
	if err != nil {
		return nil, fmt.Errorf("allocate buffer: %w", err)
	}
	defer func() {
		if err := region.Close(); err != nil {
			log.Warnf("release shm region: %v", err)
		}
	}()

	if err := canvas.EncodeARGB8888(region.Bytes()); err != nil {
		return nil, err
	}

	pool, err := wlShm.CreatePool(region.Fd(), int32(region.Size()))
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	width := int32(canvas.Width())
	buffer, err := pool.CreateBuffer(0, width, int32(canvas.Height()), width*4)
	if derr := pool.Destroy(); derr != nil {
		log.Warnf("destroy pool: %v", derr)
	}
	if err != nil {
		return nil, fmt.Errorf("create buffer: %w", err)
	}

	s.liveBuffers++
	return buffer, nil
}
