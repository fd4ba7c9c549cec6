package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Start serves the control API on a unix socket until ctx is done. A stale
// socket file is replaced.
func Start(ctx context.Context, sockPath string, manager ManagerInterface) error {
	if _, err := os.Stat(sockPath); err == nil {
		_ = os.Remove(sockPath)
	}

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", sockPath, err)
	}
	defer os.Remove(sockPath)

	e := NewEcho(manager)
	e.Listener = listener

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Debugf("socket server shutdown: %v", err)
		}
	}()

	log.Debugf("socket server listening on %s", sockPath)
	if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("socket server: %w", err)
	}
	return nil
}
