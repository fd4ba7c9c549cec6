package ipc

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/matjam/beambar/internal/bar"
)

type StatusSource interface {
	Snapshot() bar.Status
}

// Manager connects the socket handlers to a running bar. Commands are
// queued and carried out by Run.
type Manager struct {
	sync.Mutex
	source StatusSource
	script string
	cmds   chan Command
}

func NewManager(source StatusSource, script string) *Manager {
	return &Manager{
		source: source,
		script: script,
		cmds:   make(chan Command, 1),
	}
}

func (m *Manager) Status() bar.Status {
	return m.source.Snapshot()
}

func (m *Manager) Script() string {
	return m.script
}

// EnqueueCommand drops the command if one is already waiting.
func (m *Manager) EnqueueCommand(cmd Command) {
	m.Lock()
	defer m.Unlock()

	select {
	case m.cmds <- cmd:
	default:
		log.Warnf("command queue full, dropping %q", cmd.Type)
	}
}

// Run handles queued commands until ctx is done. stop is called for a stop
// command.
func (m *Manager) Run(ctx context.Context, stop context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-m.cmds:
			switch cmd.Type {
			case CommandStop:
				log.Info("Received stop command")
				stop()
			default:
				log.Errorf("Unknown command: %v", cmd.Type)
			}
		}
	}
}
