package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultCommandTimeout = 5 * time.Second

// spawnFailed is the status reported when a command could not be started.
const spawnFailed = 255

type CommandResult struct {
	Status int
	Stdout string
	Stderr string
}

// Host is everything a layout script can reach outside of itself. A nil
// field falls back to the real system.
type Host struct {
	Run      func(ctx context.Context, argv []string) CommandResult
	ReadFile func(path string) ([]byte, error)
	Getenv   func(name string) string
	Clock    clockwork.Clock
	Timeout  time.Duration
}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) run(argv []string) CommandResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	run := h.Run
	if run == nil {
		run = ExecCommand
	}
	return run(ctx, argv)
}

func (h *Host) readFile(path string) ([]byte, error) {
	if h.ReadFile != nil {
		return h.ReadFile(path)
	}
	return os.ReadFile(path)
}

func (h *Host) getenv(name string) string {
	if h.Getenv != nil {
		return h.Getenv(name)
	}
	return os.Getenv(name)
}

func (h *Host) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now()
	}
	return time.Now()
}

// ExecCommand runs argv without a shell. Output is forced to valid UTF-8.
func ExecCommand(ctx context.Context, argv []string) CommandResult {
	if len(argv) == 0 {
		return CommandResult{Status: spawnFailed, Stderr: "empty command"}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: toValidUTF8(stdout.Bytes()),
		Stderr: toValidUTF8(stderr.Bytes()),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.Status = exitErr.ExitCode()
		if result.Status < 0 {
			// killed by a signal, usually the timeout
			result.Status = spawnFailed
		}
	default:
		result.Status = spawnFailed
		result.Stderr = err.Error()
	}
	return result
}

func toValidUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
