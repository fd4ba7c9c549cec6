package bar

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// HandleOutputMode records the output width. Once the bar exists the new
// width is picked up by the next frame.
func (s *Session) HandleOutputMode(width int32) {
	if width <= 0 {
		log.Debugf("ignoring output mode with width %d", width)
		return
	}

	if _, ok := s.assembler.Final(); ok {
		if err := s.assembler.SetWidth(uint32(width)); err != nil {
			s.fail(fmt.Errorf("output mode: %w", err))
			return
		}
		s.publish()
		return
	}

	if err := s.assembler.ApplyUpdate(WithWidth(uint32(width))); err != nil {
		s.fail(fmt.Errorf("output mode: %w", err))
		return
	}
	s.tryFinalize()
}
