package script

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matjam/beambar/internal/render"
	"github.com/matjam/beambar/internal/text"
	"github.com/matjam/beambar/internal/types"
	"github.com/matjam/beambar/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, src string, host *Host) *Config {
	t.Helper()
	cfg, err := Evaluate([]byte(src), "test.hcl", host)
	require.NoError(t, err)
	return cfg
}

func draw(t *testing.T, w widget.Widget) []widget.Label {
	t.Helper()
	u, ok := w.(*widget.User)
	require.True(t, ok, "expected a user widget, got %T", w)
	labels, err := u.Draw()
	require.NoError(t, err)
	return labels
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func drawExpr(t *testing.T, expr string, host *Host) []widget.Label {
	t.Helper()
	cfg := evaluate(t, "widget \"w\" {\n  draw = "+expr+"\n}\n", host)
	return draw(t, cfg.Layout[0])
}

func TestEvaluate_EndToEnd(t *testing.T) {
	cfg := evaluate(t, `
surface {
  height = 24
  anchor = "bottom"
}

widget "cpu" {
  draw = label("cpu: 10%", color("#FF0000FF"))
}
`, nil)

	assert.Equal(t, uint32(24), cfg.Surface.Height)
	assert.Nil(t, cfg.Surface.ExclusiveHeight)
	assert.Equal(t, int32(24), cfg.Surface.ExclusiveZone())
	assert.Equal(t, types.AnchorBottom, cfg.Surface.Anchor())
	assert.Equal(t, types.EdgeBottom, cfg.Surface.Edges())

	require.Len(t, cfg.Layout, 1)
	for _, w := range cfg.Layout {
		assert.IsType(t, &widget.User{}, w)
	}

	labels := draw(t, cfg.Layout[0])
	assert.Equal(t, []widget.Label{{Text: "cpu: 10%", Color: 0xFF0000FF}}, labels)

	face, err := text.LoadFace("", 14, 72)
	require.NoError(t, err)
	shaper := text.NewShaper(face, 24)

	gui := render.NewGUI(shaper, widget.NewCache(clockwork.NewFakeClock()))
	frame := gui.Render(cfg.Layout, 400, 24)
	require.Len(t, frame.Placements, 1)

	p := frame.Placements[0]
	assert.Equal(t, 0, p.Start)

	want := 0
	for _, g := range shaper.Shape("cpu: 10%") {
		want = max(want, g.Mask.Bounds().Max.X)
	}
	assert.Equal(t, want, p.End)

	red := 0
	img := frame.Canvas.Image()
	for y := 0; y < 24; y++ {
		for x := 0; x < p.End; x++ {
			px := img.RGBAAt(x, y)
			if px.A > 0 {
				assert.Zero(t, px.G)
				assert.Zero(t, px.B)
				red++
			}
		}
	}
	assert.Positive(t, red)
}

func TestEvaluate_DefaultSurface(t *testing.T) {
	cfg := evaluate(t, `spacer {}`, nil)

	assert.Equal(t, types.DefaultSurface(), cfg.Surface)
	assert.Equal(t, []widget.Widget{widget.Spacer{}}, cfg.Layout)
}

func TestEvaluate_LayoutOrder(t *testing.T) {
	cfg := evaluate(t, `
widget "a" {
  draw = null
}
spacer {}
locals {
  x = 1
}
widget "b" {
  width   = 80
  refresh = "250ms"
  draw    = null
}
`, nil)

	require.Len(t, cfg.Layout, 3)
	assert.Equal(t, "a", cfg.Layout[0].(*widget.User).Title)
	assert.Equal(t, widget.Spacer{}, cfg.Layout[1])

	b := cfg.Layout[2].(*widget.User)
	assert.Equal(t, "b", b.Title)
	assert.Equal(t, 80, b.WidthHint)
	assert.Equal(t, 250*time.Millisecond, b.Refresh)
	assert.Empty(t, draw(t, b))
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "bad anchor", src: "surface {\n anchor = \"left\"\n}\nspacer {}", wantErr: ErrAnchor},
		{name: "zero height", src: "surface {\n height = 0\n}\nspacer {}", wantErr: ErrSurface},
		{name: "two surfaces", src: "surface {}\nsurface {}\nspacer {}", wantErr: ErrSurface},
		{name: "no layout", src: "surface {\n height = 20\n}", wantErr: ErrNoLayout},
		{name: "syntax", src: "widget \"x\" {"},
		{name: "unknown block", src: "panel {}"},
		{name: "missing draw", src: "widget \"x\" {}", wantErr: ErrDraw},
		{name: "width without draw", src: "widget \"cpu\" {\n width = 10\n}", wantErr: ErrDraw},
		{name: "nested block in widget", src: "widget \"x\" {\n draw = null\n style {}\n}"},
		{name: "bad refresh", src: "widget \"x\" {\n refresh = \"soon\"\n draw = null\n}"},
		{name: "spacer with attributes", src: "spacer {\n width = 3\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate([]byte(tt.src), "test.hcl", nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEvaluate_ExclusiveHeight(t *testing.T) {
	cfg := evaluate(t, `
surface {
  height           = 30
  exclusive_height = -1
}
spacer {}
`, nil)

	require.NotNil(t, cfg.Surface.ExclusiveHeight)
	assert.Equal(t, int32(-1), cfg.Surface.ExclusiveZone())
	assert.Equal(t, types.AnchorTop, cfg.Surface.Anchor())
}

func TestDraw_Shapes(t *testing.T) {
	cfg := evaluate(t, `
locals {
  red = color("#ff0000")
}

widget "list" {
  draw = [label("a", local.red), null, { text = "b" }, { text = "c", color = "#0000ff80" }]
}
`, nil)

	assert.Equal(t, []widget.Label{
		{Text: "a", Color: 0xff0000ff},
		{Text: "b", Color: widget.White},
		{Text: "c", Color: 0x0000ff80},
	}, draw(t, cfg.Layout[0]))
}

func TestDraw_Unrecognized(t *testing.T) {
	for _, expr := range []string{`"plain"`, `42`, `[1, 2]`, `{ colour = 1 }`, `{ text = "x", color = "nope" }`} {
		t.Run(expr, func(t *testing.T) {
			cfg := evaluate(t, "widget \"w\" {\n  draw = "+expr+"\n}\n", nil)
			_, err := cfg.Layout[0].(*widget.User).Draw()
			assert.ErrorIs(t, err, widget.ErrUnrecognizedInstruction)
		})
	}
}

func TestDraw_FunctionErrorsSurface(t *testing.T) {
	host := &Host{ReadFile: func(string) ([]byte, error) { return nil, os.ErrNotExist }}

	cfg := evaluate(t, `
widget "f" {
  draw = label(read_file("/missing"), color("#fff"))
}
`, host)
	_, err := cfg.Layout[0].(*widget.User).Draw()
	assert.Error(t, err)
}

func TestDraw_IsReevaluated(t *testing.T) {
	calls := 0
	host := &Host{Run: func(_ context.Context, argv []string) CommandResult {
		calls++
		return CommandResult{Stdout: "tick\n"}
	}}

	cfg := evaluate(t, `
widget "t" {
  draw = label(trimspace(command("date").stdout), color("#ffffff"))
}
`, host)
	assert.Zero(t, calls)

	u := cfg.Layout[0].(*widget.User)
	for range 3 {
		labels, err := u.Draw()
		require.NoError(t, err)
		assert.Equal(t, "tick", labels[0].Text)
	}
	assert.Equal(t, 3, calls)
}

func TestFunctions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC))
	var gotArgv []string
	host := &Host{
		Clock:  clock,
		Getenv: func(name string) string { return "value-of-" + name },
		ReadFile: func(path string) ([]byte, error) {
			return []byte("contents of " + filepath.Base(path)), nil
		},
		Run: func(_ context.Context, argv []string) CommandResult {
			gotArgv = argv
			return CommandResult{Status: 2, Stdout: "out", Stderr: "err"}
		},
	}
	hourAgo := clock.Now().Add(-time.Hour).Unix()

	tests := []struct {
		expr string
		want string
	}{
		{expr: `bytes(2048)`, want: "2.0 kB"},
		{expr: `comma(1234567)`, want: "1,234,567"},
		{expr: `ago(` + itoa(hourAgo) + `)`, want: "1 hour ago"},
		{expr: `now("15:04")`, want: "14:05"},
		{expr: `env("USER")`, want: "value-of-USER"},
		{expr: `read_file("/etc/hostname")`, want: "contents of hostname"},
		{expr: `upper("abc")`, want: "ABC"},
		{expr: `format("%d%%", 42)`, want: "42%"},
		{expr: `tostring(rgba(255, 0, 0, 255))`, want: itoa(0xff0000ff)},
		{expr: `tostring(command("ls", "-l", "/").status)`, want: "2"},
		{expr: `command("ls").stderr`, want: "err"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			labels := drawExpr(t, `label(`+tt.expr+`, 0)`, host)
			require.Len(t, labels, 1)
			assert.Equal(t, tt.want, labels[0].Text)
		})
	}

	assert.Equal(t, []string{"ls"}, gotArgv)
}

func TestFunctions_InvalidArguments(t *testing.T) {
	for _, expr := range []string{
		`label("x", color("#12"))`,
		`label("x", rgba(256, 0, 0, 0))`,
		`label("x", -1)`,
		`label(bytes(-5), 0)`,
	} {
		t.Run(expr, func(t *testing.T) {
			cfg := evaluate(t, "widget \"w\" {\n  draw = "+expr+"\n}\n", nil)
			_, err := cfg.Layout[0].(*widget.User).Draw()
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`spacer {}`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, cfg.Layout, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"), nil)
	assert.Error(t, err)
}

func TestExecCommand(t *testing.T) {
	res := ExecCommand(context.Background(), []string{"sh", "-c", "printf out; printf err >&2; exit 3"})
	assert.Equal(t, CommandResult{Status: 3, Stdout: "out", Stderr: "err"}, res)

	res = ExecCommand(context.Background(), []string{"/nonexistent/beambar-test"})
	assert.Equal(t, 255, res.Status)
	assert.NotEmpty(t, res.Stderr)

	res = ExecCommand(context.Background(), nil)
	assert.Equal(t, 255, res.Status)
}

func TestExecCommand_Timeout(t *testing.T) {
	host := &Host{Timeout: 50 * time.Millisecond}
	res := host.run([]string{"sleep", "5"})
	assert.Equal(t, 255, res.Status)
}

func TestLoad_ExampleLayout(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "status.hcl"), nil)
	require.NoError(t, err)

	assert.Equal(t, uint32(24), cfg.Surface.Height)
	require.Len(t, cfg.Layout, 6)
	assert.Equal(t, widget.Spacer{}, cfg.Layout[1])
	assert.Equal(t, "clock", cfg.Layout[4].(*widget.User).Title)
}
