package bar

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// HandleConfigure acknowledges the configure with its own serial before
// anything else is committed. The first one maps the bar with the blank
// buffer made during finalization.
func (s *Session) HandleConfigure(serial, width, height uint32) {
	f, ok := s.assembler.Final()
	if !ok {
		s.fail(fmt.Errorf("configure: %w", ErrNotFinal))
		return
	}
	log.Debugf("configure serial=%d size=%dx%d", serial, width, height)

	if err := f.LayerSurface().AckConfigure(serial); err != nil {
		s.fail(fmt.Errorf("ack configure: %w", err))
		return
	}

	surface := f.Surface()
	if s.lifecycle == AwaitingConfigure {
		s.lifecycle = Visible
		if s.pending != nil {
			if err := s.present(surface, s.pending, s.sizedWidth); err != nil {
				s.fail(err)
				return
			}
			s.pending = nil
		}
	}

	if !s.frameOutstanding {
		if err := surface.Frame(); err != nil {
			s.fail(fmt.Errorf("request frame: %w", err))
			return
		}
		s.frameOutstanding = true
	}

	if err := surface.Commit(); err != nil {
		s.fail(fmt.Errorf("commit: %w", err))
		return
	}
	s.publish()
}

// HandleClosed stops the dispatch loop. Later calls do nothing.
func (s *Session) HandleClosed() {
	if s.lifecycle == Closed {
		return
	}
	log.Info("compositor closed the bar")

	s.lifecycle = Closed
	s.running = false
	s.publish()
}
