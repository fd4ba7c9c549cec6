package ipc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matjam/beambar/internal/bar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	status bar.Status
}

func (f fakeSource) Snapshot() bar.Status { return f.status }

func newTestManager() *Manager {
	return NewManager(fakeSource{status: bar.Status{
		State:       "final",
		Running:     true,
		OutputWidth: 1920,
		Height:      32,
		Frames:      7,
	}}, "status.hcl")
}

func TestStatusHandler(t *testing.T) {
	e := NewEcho(newTestManager())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, os.Getpid(), resp.PID)
	assert.Equal(t, "status.hcl", resp.Script)
	assert.Equal(t, uint32(1920), resp.Bar.OutputWidth)
	assert.Equal(t, uint64(7), resp.Bar.Frames)
	assert.True(t, resp.Bar.Running)
}

func TestStopHandler_QueuesStop(t *testing.T) {
	m := newTestManager()
	e := NewEcho(m)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stop", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case cmd := <-m.cmds:
		assert.Equal(t, CommandStop, cmd.Type)
	default:
		t.Fatal("stop was not queued")
	}
}

func TestUnknownRoute(t *testing.T) {
	e := NewEcho(newTestManager())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/next", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnqueueCommand_DropsWhenFull(t *testing.T) {
	m := newTestManager()
	m.EnqueueCommand(Command{Type: CommandStop})
	m.EnqueueCommand(Command{Type: "reload"})

	assert.Len(t, m.cmds, 1)
	assert.Equal(t, CommandStop, (<-m.cmds).Type)
}

func TestManagerRun_StopCancels(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx, cancel)
		close(done)
	}()

	m.EnqueueCommand(Command{Type: CommandStop})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
	assert.Error(t, ctx.Err())
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/beambar.sock", SocketPath())
}

func TestClientOverSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "b.sock")
	m := newTestManager()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Start(ctx, sock, m) }()

	client := NewClient(sock)
	require.Eventually(t, func() bool {
		_, err := client.Status()
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := client.Status()
	require.NoError(t, err)
	assert.Equal(t, "final", resp.Bar.State)

	require.NoError(t, client.Stop())
	assert.Equal(t, CommandStop, (<-m.cmds).Type)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	_, err = os.Stat(sock)
	assert.True(t, os.IsNotExist(err))
}

func TestClient_NoServer(t *testing.T) {
	_, err := NewClient(filepath.Join(t.TempDir(), "missing.sock")).Status()
	assert.Error(t, err)
}

func TestStart_ReturnsOnCancelWithoutClients(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "idle.sock")

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Start(ctx, sock, newTestManager()) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(sock)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server kept serving after cancel")
	}
}

func TestStart_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errc := make(chan error, 1)
	go func() { errc <- Start(ctx, filepath.Join(t.TempDir(), "c.sock"), newTestManager()) }()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server kept serving after cancel")
	}
}
