package bar

// FinalizeFunc performs the one-time setup once every prerequisite is
// present. It must return the Final state to switch to.
type FinalizeFunc func(p *Partial) (*Final, error)

// Assembler owns the resource state. Callers apply updates and then ask it
// to finalize; the finalize function runs at most once successfully.
type Assembler struct {
	state    ResourceState
	finalize FinalizeFunc
}

func NewAssembler(finalize FinalizeFunc) *Assembler {
	return &Assembler{
		state:    &Partial{},
		finalize: finalize,
	}
}

func (a *Assembler) State() ResourceState { return a.state }

func (a *Assembler) Final() (*Final, bool) {
	f, ok := a.state.(*Final)
	return f, ok
}

// Needs reports whether a global with this interface name would still be
// used.
func (a *Assembler) Needs(iface string) bool {
	p, ok := a.state.(*Partial)
	if !ok {
		return false
	}
	switch iface {
	case InterfaceCompositor, InterfaceShm, InterfaceOutput, InterfaceLayerShell:
		return !p.Bound(iface)
	}
	return false
}

func (a *Assembler) ApplyUpdate(u Update) error {
	p, ok := a.state.(*Partial)
	if !ok {
		return ErrAlreadyFinal
	}
	return u.apply(p)
}

// SetWidth changes the stored width of the finished bar. Before
// finalization the width goes through ApplyUpdate(WithWidth(w)).
func (a *Assembler) SetWidth(w uint32) error {
	f, ok := a.state.(*Final)
	if !ok {
		return ErrNotFinal
	}
	f.width = w
	return nil
}

// TryFinalize switches to Final when the Partial state is complete. It
// reports whether the switch happened on this call. On error the state
// stays Partial.
func (a *Assembler) TryFinalize() (bool, error) {
	p, ok := a.state.(*Partial)
	if !ok || !p.Complete() {
		return false, nil
	}

	f, err := a.finalize(p)
	if err != nil {
		return false, err
	}
	if f == nil {
		return false, ErrIncomplete
	}

	a.state = f
	return true, nil
}
