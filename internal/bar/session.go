package bar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/types"
)

type Lifecycle string

const (
	AwaitingConfigure Lifecycle = "awaiting-configure"
	Visible           Lifecycle = "visible"
	Closed            Lifecycle = "closed"
)

const DefaultNamespace = "beam"

var ErrHeight = errors.New("bar height must be positive")

type Config struct {
	Surface   types.SurfaceConfig
	Layer     types.Layer
	Namespace string
}

var _ EventSink = (*Session)(nil)

// Session is the bar's state machine. All Handle* methods, Dispatch and
// Run must be called from one goroutine; Snapshot is safe from any.
type Session struct {
	cfg       types.SurfaceConfig
	layer     uint32
	namespace string
	painter   Painter

	registry  Registry
	assembler *Assembler

	running          bool
	lifecycle        Lifecycle
	frameOutstanding bool
	pending          Buffer
	sizedWidth       uint32
	frames           uint64
	liveBuffers      int
	err              error

	status atomic.Pointer[Status]
}

func NewSession(cfg Config, painter Painter) (*Session, error) {
	if cfg.Surface.Height == 0 {
		return nil, ErrHeight
	}

	if cfg.Layer == "" {
		cfg.Layer = types.LayerBottom
	}
	layer, ok := cfg.Layer.Value()
	if !ok {
		return nil, fmt.Errorf("unknown layer %q", cfg.Layer)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	s := &Session{
		cfg:       cfg.Surface,
		layer:     layer,
		namespace: cfg.Namespace,
		painter:   painter,
		lifecycle: AwaitingConfigure,
	}
	s.assembler = NewAssembler(s.finalize)
	s.publish()
	return s, nil
}

// Run dispatches events until the compositor closes the bar, a protocol
// step fails or ctx is cancelled. Cancellation wakes the pending dispatch
// and is not an error. conn is closed before Run returns.
func (s *Session) Run(ctx context.Context, conn Conn) error {
	s.start(conn)
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debugf("closing display: %v", err)
		}
	}()

	woke := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(woke)
		if err := conn.Wake(); err != nil {
			log.Debugf("waking dispatch: %v", err)
		}
	})
	// a wake already in flight finishes before the display is closed
	defer func() {
		if !stop() {
			<-woke
		}
	}()

	for s.running && ctx.Err() == nil {
		if err := s.Dispatch(conn); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("dispatch: %w", err)
		}
		if s.err != nil {
			return s.err
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	return s.err
}

func (s *Session) start(reg Registry) {
	s.registry = reg
	s.running = true
	s.publish()
}

// Dispatch blocks for the next events unless the bar has stopped, in which
// case it returns at once.
func (s *Session) Dispatch(d interface{ Dispatch() error }) error {
	if !s.running {
		return nil
	}
	return d.Dispatch()
}

func (s *Session) Running() bool         { return s.running }
func (s *Session) Lifecycle() Lifecycle  { return s.lifecycle }
func (s *Session) Assembler() *Assembler { return s.assembler }

// Err is the failure that stopped the session, if any.
func (s *Session) Err() error { return s.err }

func (s *Session) fail(err error) {
	if s.err == nil {
		s.err = err
		log.Errorf("bar: %v", err)
	}
	s.running = false
	s.publish()
}

// Status is a point-in-time view of the session for the control socket.
type Status struct {
	State         string       `json:"state"`
	Lifecycle     Lifecycle    `json:"lifecycle"`
	Running       bool         `json:"running"`
	Missing       []string     `json:"missing,omitempty"`
	OutputWidth   uint32       `json:"output_width"`
	Height        uint32       `json:"height"`
	Anchor        types.Anchor `json:"anchor"`
	ExclusiveZone int32        `json:"exclusive_zone"`
	Frames        uint64       `json:"frames"`
	LiveBuffers   int          `json:"live_buffers"`
	Error         string       `json:"error,omitempty"`
}

func (s *Session) publish() {
	st := &Status{
		Lifecycle:     s.lifecycle,
		Running:       s.running,
		Height:        s.cfg.Height,
		Anchor:        s.cfg.Anchor(),
		ExclusiveZone: s.cfg.ExclusiveZone(),
		Frames:        s.frames,
		LiveBuffers:   s.liveBuffers,
	}

	switch state := s.assembler.State().(type) {
	case *Partial:
		st.State = "partial"
		st.Missing = state.Missing()
		st.OutputWidth, _ = state.Width()
	case *Final:
		st.State = "final"
		st.OutputWidth = state.Width()
	}

	if s.err != nil {
		st.Error = s.err.Error()
	}
	s.status.Store(st)
}

// Snapshot returns the last published status.
func (s *Session) Snapshot() Status {
	return *s.status.Load()
}
