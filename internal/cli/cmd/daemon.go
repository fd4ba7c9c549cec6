package cmd

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sevlyar/go-daemon"
)

// Daemonize forks a background copy of the current command line. In the
// parent it returns parent=true and the caller should return. The child
// gets BACKGROUND_PROCESS=1 and must Release the context on exit.
func Daemonize() (*daemon.Context, bool) {
	runDir := os.Getenv("XDG_RUNTIME_DIR")
	if runDir == "" {
		runDir = os.TempDir()
	}

	dctx := &daemon.Context{
		PidFileName: filepath.Join(runDir, "beambar.pid"),
		PidFilePerm: 0644,
		WorkDir:     "/",
		Umask:       027,
		Args:        os.Args,
		Env:         append(os.Environ(), "BACKGROUND_PROCESS=1"),
	}

	child, err := dctx.Reborn()
	if err != nil {
		log.Fatalf("Unable to run in the background: %v", err)
	}
	if child != nil {
		log.Infof("beambar started in the background with PID %d", child.Pid)
		return nil, true
	}
	return dctx, false
}
