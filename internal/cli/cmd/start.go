package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/matjam/beambar/internal/bar"
	"github.com/matjam/beambar/internal/cli/cmd/utils"
	"github.com/matjam/beambar/internal/ipc"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/script"
	"github.com/matjam/beambar/internal/text"
	"github.com/matjam/beambar/internal/types"
	"github.com/matjam/beambar/internal/wayland"
	"github.com/matjam/beambar/internal/widget"
	"github.com/spf13/viper"
)

var errNoScript = errors.New("no layout script given")

func newHost() *script.Host {
	host := script.NewHost()
	host.Timeout = viper.GetDuration("command_timeout")
	host.Clock = clockwork.NewRealClock()
	return host
}

func loadLayout(path string) (*script.Config, error) {
	if path == "" {
		return nil, errNoScript
	}
	return script.Load(utils.CanonicalPath(path), newHost())
}

func sessionConfig(surface types.SurfaceConfig) bar.Config {
	return bar.Config{
		Surface:   surface,
		Layer:     types.Layer(viper.GetString("layer")),
		Namespace: viper.GetString("namespace"),
	}
}

func newPainter(cfg *script.Config) (bar.Painter, error) {
	face, err := text.LoadFace(
		utils.CanonicalPath(viper.GetString("font")),
		viper.GetFloat64("font_size"),
		viper.GetFloat64("dpi"),
	)
	if err != nil {
		return nil, err
	}

	gui := render.NewGUI(text.NewShaper(face, int(cfg.Surface.Height)), widget.NewCache(clockwork.NewRealClock()))
	layout := cfg.Layout
	return bar.PainterFunc(func(width, height int) *render.Canvas {
		return gui.Render(layout, width, height).Canvas
	}), nil
}

func StartBar(scriptPath string) {
	log.Infof("StartBar() started in PID: %d", os.Getpid())

	if os.Getenv("BACKGROUND_PROCESS") == "1" {
		setupRotatingLogger()
	}

	if _, err := ipc.SendStatus(); err == nil {
		log.Infof("beambar is already running, exiting")
		os.Exit(0)
	}

	cfg, err := loadLayout(scriptPath)
	if err != nil {
		log.Fatalf("Error loading layout: %v", err)
	}
	log.Infof("Loaded %d widgets from %s", len(cfg.Layout), scriptPath)

	painter, err := newPainter(cfg)
	if err != nil {
		log.Fatalf("Error loading font: %v", err)
	}

	session, err := bar.NewSession(sessionConfig(cfg.Surface), painter)
	if err != nil {
		log.Fatalf("Error creating bar: %v", err)
	}

	conn, err := wayland.Connect(session)
	if err != nil {
		log.Fatalf("Error connecting to the compositor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := ipc.NewManager(session, scriptPath)
	go manager.Run(ctx, stop)

	serverDone := serveControl(ctx, ipc.SocketPath(), manager)

	runErr := session.Run(ctx, conn)
	stop()
	<-serverDone

	if runErr != nil {
		log.Fatalf("beambar: %v", runErr)
	}
	log.Infof("beambar exited")
}

// serveControl runs the socket server until ctx is done. The returned
// channel is closed once the server has stopped.
func serveControl(ctx context.Context, path string, manager ipc.ManagerInterface) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Infof("Starting socket server")
		if err := ipc.Start(ctx, path, manager); err != nil {
			log.Errorf("Socket server: %v", err)
		}
	}()
	return done
}

func setupRotatingLogger() {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "beambar")
	logPath := filepath.Join(logDir, "beambar.log")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
	if !viper.GetBool("debug") {
		log.SetLevel(log.InfoLevel)
	}
}
