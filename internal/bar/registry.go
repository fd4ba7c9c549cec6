package bar

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// HandleGlobal binds the four globals the bar needs, the first of each
// announced. Anything else is ignored.
func (s *Session) HandleGlobal(name uint32, iface string, version uint32) {
	if !s.assembler.Needs(iface) {
		return
	}

	update, err := s.bind(name, iface)
	if err != nil {
		s.fail(fmt.Errorf("bind %s: %w", iface, err))
		return
	}
	log.Debugf("bound %s (name=%d, advertised v%d)", iface, name, version)

	if err := s.assembler.ApplyUpdate(update); err != nil {
		s.fail(err)
		return
	}
	s.tryFinalize()
}

func (s *Session) bind(name uint32, iface string) (Update, error) {
	switch iface {
	case InterfaceCompositor:
		c, err := s.registry.BindCompositor(name, bindVersion)
		return WithCompositor(c), err
	case InterfaceShm:
		sh, err := s.registry.BindShm(name, bindVersion)
		return WithShm(sh), err
	case InterfaceOutput:
		o, err := s.registry.BindOutput(name, bindVersion)
		return WithOutput(o), err
	case InterfaceLayerShell:
		l, err := s.registry.BindLayerShell(name, bindVersion)
		return WithLayerShell(l), err
	}
	return nil, fmt.Errorf("unexpected interface %q", iface)
}

func (s *Session) tryFinalize() {
	done, err := s.assembler.TryFinalize()
	if err != nil {
		s.fail(fmt.Errorf("finalize: %w", err))
		return
	}
	if done {
		log.Infof("bar ready: %dx%d anchored %s", s.sizedWidth, s.cfg.Height, s.cfg.Anchor())
	} else if p, ok := s.assembler.State().(*Partial); ok {
		log.Debugf("waiting for %v", p.Missing())
	}
	s.publish()
}
