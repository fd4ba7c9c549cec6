package ipc

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SocketPath is the control socket, from the socket setting or
// $XDG_RUNTIME_DIR/beambar.sock.
func SocketPath() string {
	if p := viper.GetString("socket"); p != "" {
		return p
	}

	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, "beambar.sock")
}
